package movies

func argString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func argInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return fallback
}

func argStringList(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}

	switch list := v.(type) {
	case []string:
		return list
	case []any:
		items := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return items
	}

	return nil
}
