package utils

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Envelope is the body shape shared by every JSON endpoint.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// RespondSuccess 发送成功响应, data 与 message 均可为空
func RespondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondJSON(w, status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// RespondFail 发送失败响应
func RespondFail(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Envelope{Status: StatusFail, Message: message})
}

// DecodeJSON 解析请求体
func DecodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

// Marshal 使用与响应相同的编码器序列化
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
