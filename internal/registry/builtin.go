package registry

import "github.com/Elmersong/HealthKey/internal/model"

// builtinCategories is the catalog seeded on first run. Order matters:
// it is the display order for day summaries.
func builtinCategories() []model.Category {
	return []model.Category{
		{ID: "diet", Label: "饮食", Color: "#ff9f43", BuiltIn: true},
		{ID: "excretion", Label: "排泄", Color: "#f368e0", BuiltIn: true},
		{ID: "sleep", Label: "睡眠", Color: "#54a0ff", BuiltIn: true},
		{ID: "activity", Label: "活动", Color: "#1dd1a1", BuiltIn: true},
	}
}

func builtinEventTypes() []model.EventTypeDefinition {
	return []model.EventTypeDefinition{
		{ID: "breakfast", Label: "早餐", CategoryID: "diet", BuiltIn: true},
		{ID: "lunch", Label: "午餐", CategoryID: "diet", BuiltIn: true},
		{ID: "dinner", Label: "晚餐", CategoryID: "diet", BuiltIn: true},
		{ID: "snack", Label: "零食", CategoryID: "diet", BuiltIn: true},
		{ID: "fruit", Label: "水果", CategoryID: "diet", BuiltIn: true},
		{ID: "supplement", Label: "营养品", CategoryID: "diet", BuiltIn: true},
		{ID: "water", Label: "喝水", CategoryID: "diet", BuiltIn: true},
		{ID: "pee", Label: "排尿", CategoryID: "excretion", BuiltIn: true},
		{ID: "poop", Label: "排便", CategoryID: "excretion", BuiltIn: true},
		{ID: "sleep_start", Label: "入睡", CategoryID: "sleep", BuiltIn: true},
		{ID: "wake", Label: "醒来", CategoryID: "sleep", BuiltIn: true},
		{ID: "getup", Label: "起床", CategoryID: "sleep", BuiltIn: true},
		{ID: "exercise", Label: "运动", CategoryID: "activity", BuiltIn: true},
		{ID: "laugh", Label: "大笑", CategoryID: "activity", BuiltIn: true},
		{ID: "sex", Label: "性爱", CategoryID: "activity", BuiltIn: true},
	}
}
