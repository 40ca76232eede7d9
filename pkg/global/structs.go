package global

// Wire shapes shared by every handler. The client renders the `error`
// string directly, so messages stay human-readable sentences.

type ErrorBody struct {
	Error string `json:"error"`
}

type HealthBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DeleteBody struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func Error(message string) ErrorBody {
	return ErrorBody{Error: message}
}

func Deleted(message, id string) DeleteBody {
	return DeleteBody{Message: message, ID: id}
}
