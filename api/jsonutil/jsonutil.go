package jsonutil

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func WriteJSONResponse(responseWriter http.ResponseWriter, data any, statusCode int) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)

	if err := json.NewEncoder(responseWriter).Encode(data); err != nil {
		log.Printf("error encoding json response: %s", err)
	}
}

func UnmarshalJsonResponse[T any](request *http.Request) (T, error) {
	var data T

	decoder := json.NewDecoder(request.Body)
	if err := decoder.Decode(&data); err != nil {
		return data, fmt.Errorf("error decoding request body: %w", err)
	}

	return data, nil
}
