package toolhandler

import "fmt"

// ValidateArguments checks caller-assembled arguments against a tool's
// declared input schema before dispatch. The schema is the same
// object/properties/required map shape the specs carry; only the primitive
// types the catalog tools declare are understood.
func ValidateArguments(schema map[string]any, args map[string]any) error {
	properties, _ := schema["properties"].(map[string]any)

	for name := range args {
		if _, ok := properties[name]; !ok {
			return fmt.Errorf("unknown argument %q", name)
		}
	}

	if required, ok := schema["required"].([]string); ok {
		for _, name := range required {
			if _, present := args[name]; !present {
				return fmt.Errorf("missing required argument %q", name)
			}
		}
	}

	for name, value := range args {
		property, _ := properties[name].(map[string]any)
		propertyType, _ := property["type"].(string)

		if value == nil {
			continue
		}

		if err := checkType(propertyType, value); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}

	return nil
}

func checkType(propertyType string, value any) error {
	switch propertyType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "integer":
		switch v := value.(type) {
		case int, int64:
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
	case "number":
		switch value.(type) {
		case int, int64, float64:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case "array":
		switch v := value.(type) {
		case []any:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("expected array of strings, got item %T", item)
				}
			}
		case []string:
		default:
			return fmt.Errorf("expected array, got %T", value)
		}
	}

	return nil
}
