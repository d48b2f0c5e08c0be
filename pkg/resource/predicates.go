package resource

// IsVisible reports whether field is shown in mode. Fields whose validation
// group for the mode is "null" are hidden, as is the id field when creating.
func IsVisible(field FieldSchema, mode Mode) bool {
	groups := field.groups()
	switch mode {
	case ModeCreate:
		if field.Name == IDField {
			return false
		}
		return groups.Insert != DirectiveNull && groups.Create != DirectiveNull
	case ModeUpdate:
		return groups.Update != DirectiveNull
	default:
		return true
	}
}

// IsRequired reports whether field must be filled in mode. In create mode a
// "notNull" insert/create group or the generic Required flag applies; in
// update mode only a "notNull" update group does. The id field is never
// required.
func IsRequired(field FieldSchema, mode Mode) bool {
	if field.Name == IDField {
		return false
	}
	groups := field.groups()
	switch mode {
	case ModeCreate:
		return groups.Insert == DirectiveNotNull || groups.Create == DirectiveNotNull || field.Required
	case ModeUpdate:
		return groups.Update == DirectiveNotNull
	default:
		return false
	}
}
