// Package template defines the persisted shape of a form template: its name,
// recurrence schedule and field layout.
//
// Templates round-trip through JSON and YAML with [Write] and [Read]:
//
//	{
//	  "id": "4b0c...",
//	  "name": "Fridge checks",
//	  "schedule": {"frequency": "Daily", "days_of_week": [1, 2, 3, 4, 5]},
//	  "layout": [
//	    {"id": "f1", "type": "label", "x": 20, "y": 20, "props": {"text": "Fridge 1"}},
//	    {"id": "f2", "type": "temperature", "x": 20, "y": 64, "props": {"min": 0, "max": 5}}
//	  ]
//	}
//
// Unknown props are kept as-is; the schedule is opaque to the layout engine.
package template
