package handlers

// validationDetails mirrors the flattened field error shape clients already parse
type validationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func fieldError(field, message string) validationDetails {
	return validationDetails{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{field: {message}},
	}
}

func formError(message string) validationDetails {
	return validationDetails{
		FormErrors:  []string{message},
		FieldErrors: map[string][]string{},
	}
}
