package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/DiegoFarias19/GrowingAPP/internal/devicecloud"
)

// DeviceCloudActuator switches the relay through the device-cloud client.
type DeviceCloudActuator struct {
	client *devicecloud.Client
}

// NewDeviceCloudActuator wraps a device-cloud client.
func NewDeviceCloudActuator(client *devicecloud.Client) *DeviceCloudActuator {
	return &DeviceCloudActuator{client: client}
}

// Actuate publishes state to the relay property.
func (a *DeviceCloudActuator) Actuate(ctx context.Context, state bool) error {
	return a.client.SetRelay(ctx, state)
}

// HTTPActuator switches the relay by POSTing {"state": bool} to the relay
// function's URL.
type HTTPActuator struct {
	http *resty.Client
	url  string
}

// NewHTTPActuator creates an actuator for url with a fixed timeout.
func NewHTTPActuator(url string, timeout time.Duration) *HTTPActuator {
	return &HTTPActuator{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		url: url,
	}
}

// Actuate posts the desired state. Non-2xx answers are errors.
func (a *HTTPActuator) Actuate(ctx context.Context, state bool) error {
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(map[string]bool{"state": state}).
		Post(a.url)
	if err != nil {
		return fmt.Errorf("calling relay endpoint: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("relay endpoint returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
