package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/emeralddgc/disc-tracker/internal/mocks"
)

func TestHealth(t *testing.T) {
	h := NewMeta(nil, zap.NewNop())

	res := httptest.NewRecorder()
	h.Health(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"status":"ok"`)
}

func TestPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockDiscServiceIface(ctrl)
	h := NewMeta(svc, zap.NewNop())

	svc.EXPECT().PingContext(gomock.Any()).Return(nil)

	res := httptest.NewRecorder()
	h.Ping(res, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, res.Code)

	svc.EXPECT().PingContext(gomock.Any()).Return(errors.New("down"))

	res = httptest.NewRecorder()
	h.Ping(res, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}
