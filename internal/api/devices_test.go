package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoFarias19/GrowingAPP/internal/device"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
)

func seedDevices(t *testing.T, env *testEnv) {
	t.Helper()
	env.exec(t, `INSERT INTO devices (device_id, crop_id, device_name, state, control_mode) VALUES
		('d-null', 'c1', NULL, NULL, NULL),
		('d-auto', 'c1', 'Bravo', 1, 'AUTOMATICO'),
		('d-other', 'c2', 'Alpha', 0, 'MANUAL')`)
}

func TestGetDeviceState(t *testing.T) {
	env := newTestEnv(t)
	seedDevices(t, env)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantRelay  any
		wantMode   any
	}{
		{"null defaults", "/api/v1/get-device-state?device_id=d-null", http.StatusOK, false, "MANUAL"},
		{"stored values", "/api/v1/get-device-state?device_id=d-auto", http.StatusOK, true, "AUTOMATICO"},
		{"unknown device", "/api/v1/get-device-state?device_id=missing", http.StatusNotFound, nil, nil},
		{"missing id", "/api/v1/get-device-state", http.StatusBadRequest, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decodeMap(t, rec)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "error", body["status"])
				return
			}
			assert.Equal(t, "success", body["status"])
			assert.Equal(t, tt.wantRelay, body["relay_state"])
			assert.Equal(t, tt.wantMode, body["control_mode"])
		})
	}
}

func TestGetDeviceCrops(t *testing.T) {
	env := newTestEnv(t)
	seedDevices(t, env)

	rec := env.do(http.MethodGet, "/api/v1/get-device-crops?crop_id=c1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	devices := decodeList(t, rec)
	require.Len(t, devices, 2)
	byID := map[any]map[string]any{}
	for _, d := range devices {
		byID[d["device_id"]] = d
		assert.Equal(t, "c1", d["crop_id"])
	}
	assert.Equal(t, device.DefaultName, byID["d-null"]["device_name"])
	assert.Nil(t, byID["d-null"]["state"])
	assert.Equal(t, "Bravo", byID["d-auto"]["device_name"])
	assert.Equal(t, true, byID["d-auto"]["state"])

	rec = env.do(http.MethodGet, "/api/v1/get-device-crops?crop_id=none", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/get-device-crops", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetControlMode(t *testing.T) {
	env := newTestEnv(t)
	seedDevices(t, env)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"missing device", `{"control_mode":"MANUAL"}`, http.StatusBadRequest},
		{"missing mode", `{"device_id":"d-null"}`, http.StatusBadRequest},
		{"unknown mode", `{"device_id":"d-null","control_mode":"TURBO"}`, http.StatusBadRequest},
		{"lower-case mode", `{"device_id":"d-null","control_mode":"manual"}`, http.StatusBadRequest},
		{"no such device", `{"device_id":"ghost","control_mode":"MANUAL"}`, http.StatusNotFound},
		{"switch to automatic", `{"device_id":"d-null","control_mode":"AUTOMATICO"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/v1/set-control-mode", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	var mode string
	require.NoError(t, env.db.QueryRowContext(context.Background(),
		`SELECT control_mode FROM devices WHERE device_id = 'd-null'`).Scan(&mode))
	assert.Equal(t, "AUTOMATICO", mode)

	rec := env.do(http.MethodGet, "/api/v1/get-device-state?device_id=d-null", "")
	assert.Equal(t, "AUTOMATICO", decodeMap(t, rec)["control_mode"])
}

func TestSetControlMode_UnknownModeMessage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/v1/set-control-mode", `{"device_id":"d1","control_mode":"AUTO"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	msg := decodeMap(t, rec)["error"].(string)
	assert.Contains(t, msg, "AUTOMATICO")
	assert.Contains(t, msg, "MANUAL")
}

func TestSendBoolACloud(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fail       map[string]int
		wantStatus int
		wantCalls  int
	}{
		{"publish true", `{"state":true}`, nil, http.StatusOK, 1},
		{"publish false", `{"state":false}`, nil, http.StatusOK, 1},
		{"missing state", `{}`, nil, http.StatusBadRequest, 0},
		{"empty body", ``, nil, http.StatusBadRequest, 0},
		{"string state", `{"state":"true"}`, nil, http.StatusBadRequest, 0},
		{"numeric state", `{"state":1}`, nil, http.StatusBadRequest, 0},
		{"cloud rejects", `{"state":true}`, map[string]int{"relay_Control": http.StatusForbidden}, http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for k, v := range tt.fail {
				env.cloud.fail[k] = v
			}

			rec := env.do(http.MethodPost, "/api/v1/send-bool-acloud", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			calls := env.cloud.published()
			require.Len(t, calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, "thing-1", calls[0].thing)
				assert.Equal(t, "relay_Control", calls[0].property)
			}

			body := decodeMap(t, rec)
			switch tt.wantStatus {
			case http.StatusOK:
				assert.Equal(t, "success", body["status"])
				assert.Equal(t, calls[0].value, body["new_relay_state"])
			case http.StatusInternalServerError:
				assert.Contains(t, body["error"], "403")
				assert.True(t, strings.Contains(body["details"].(string), "property rejected"))
			}
		})
	}
}

func TestSendBoolACloud_NotConfigured(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.DeviceCloud.DeviceKey = ""
	})

	rec := env.do(http.MethodPost, "/api/v1/send-bool-acloud", `{"state":true}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "server configuration incomplete", decodeMap(t, rec)["error"])
	assert.Empty(t, env.cloud.published())
}
