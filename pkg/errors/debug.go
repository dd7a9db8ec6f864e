package errors

import stdErrors "errors"

// Dumped flattens an error chain for structured logging.
type Dumped struct {
	TopMessage string   `json:"top_message"`
	Code       string   `json:"code"`
	Chain      []string `json:"chain"`
}

// Dump walks the error chain and collects each message plus the typed code.
func Dump(err error) Dumped {
	dump := Dumped{}
	if err == nil {
		return dump
	}
	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}
	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}
	return dump
}
