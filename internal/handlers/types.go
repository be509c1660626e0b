package handlers

// okPayload wraps simple success responses
type okPayload struct {
	Message string `json:"message"`
}

// listPayload carries a slice result plus its length so clients do not
// have to count
type listPayload struct {
	Count int         `json:"count"`
	Items interface{} `json:"items"`
}

func ok(message string) okPayload {
	return okPayload{Message: message}
}
