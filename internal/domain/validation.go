package domain

// OrderValidation is produced fresh on every validation call and never
// persisted. The error list is the source of truth: an empty list means the
// order is valid, there is no separately maintained flag.
type OrderValidation struct {
	Errors []string `json:"errors"`
}

func (v OrderValidation) IsValid() bool {
	return len(v.Errors) == 0
}

func Valid() OrderValidation {
	return OrderValidation{}
}

func Invalid(errs ...string) OrderValidation {
	return OrderValidation{Errors: errs}
}
