package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril"
	httpAdapter "github.com/aretw0/tendril/internal/adapters/http"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/runner"
)

func newTestHandler() http.Handler {
	vars := memory.NewVariables()
	scene := memory.NewScene(vars)
	scene.DefineComponent(ports.ComponentRef{
		ID: "comp_default", Name: "State=Default",
		VariantSet: &ports.VariantSetRef{
			ID: "set_button", Name: "Button",
			Properties: []ports.PropertyDef{{
				Name: "State", Kind: ports.PropertyKindVariant,
				Options: []string{"Default", "Active"},
			}},
		},
	})
	scene.AddInstance("card", "Card", "", "comp_card", nil)
	scene.AddInstance("btn1", "Button 1", "card", "comp_default", map[string]string{"State": "Default"})
	scene.Select("card")

	engine := tendril.New(scene, vars)
	dispatcher := runner.NewDispatcher(engine, logging.NewNop())
	return httpAdapter.NewHandler(dispatcher, logging.NewNop())
}

func postMessage(t *testing.T, handler http.Handler, env domain.Envelope) []domain.Envelope {
	t.Helper()

	body, err := json.Marshal(env)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/message", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var replies []domain.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&replies))
	return replies
}

func TestHandleMessage_Init(t *testing.T) {
	handler := newTestHandler()

	replies := postMessage(t, handler, domain.Envelope{Type: domain.MsgInit})
	require.Len(t, replies, 1)
	assert.Equal(t, domain.MsgInitSuccess, replies[0].Type)
}

func TestHandleMessage_CreateInteraction(t *testing.T) {
	handler := newTestHandler()

	_ = postMessage(t, handler, domain.Envelope{Type: domain.MsgInit})
	replies := postMessage(t, handler, domain.Envelope{
		Type: domain.MsgCreateInteraction,
		Data: map[string]any{"componentId": "set_button", "primaryAction": "State=Active"},
	})
	require.Len(t, replies, 1)
	assert.Equal(t, domain.MsgInteractionCreated, replies[0].Type)
}

func TestHandleMessage_UnknownTypeReturnsEmptyArray(t *testing.T) {
	handler := newTestHandler()

	replies := postMessage(t, handler, domain.Envelope{Type: "resize"})
	assert.Empty(t, replies)
}

func TestHandleMessage_BadBody(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/message", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
