package devicecloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
)

// Client publishes property values to device-cloud things.
//
// Thread Safety:
//   - Safe for concurrent use. The token source serialises refreshes.
type Client struct {
	http      *resty.Client
	tokens    oauth2.TokenSource
	deviceKey string
	thingID   string
	props     config.PropertiesConfig
}

// New creates a client from configuration. It never dials; credentials are
// checked per call so read-only deployments can start without them.
func New(cfg config.DeviceCloudConfig) *Client {
	timeout := cfg.RequestTimeout()

	c := &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		deviceKey: cfg.DeviceKey,
		thingID:   cfg.ThingID,
		props:     cfg.Properties,
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:       cfg.ClientID,
			ClientSecret:   cfg.ClientSecret,
			TokenURL:       cfg.TokenURL,
			EndpointParams: url.Values{"audience": {cfg.Audience}},
			AuthStyle:      oauth2.AuthStyleInParams,
		}
		// The token source outlives any single request.
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
		c.tokens = cc.TokenSource(tokenCtx)
	}

	return c
}

// ThingID returns the configured default thing.
func (c *Client) ThingID() string {
	return c.thingID
}

// Properties returns the configured property names.
func (c *Client) Properties() config.PropertiesConfig {
	return c.props
}

// Configured reports ErrNotConfigured when the client cannot publish.
func (c *Client) Configured() error {
	if c.thingID == "" || (c.tokens == nil && c.deviceKey == "") {
		return ErrNotConfigured
	}
	return nil
}

// token returns the bearer token for the next request.
func (c *Client) token() (string, error) {
	if c.tokens == nil {
		if c.deviceKey == "" {
			return "", ErrNotConfigured
		}
		return c.deviceKey, nil
	}

	tok, err := c.tokens.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", &APIError{Op: "token", StatusCode: re.Response.StatusCode, Body: string(re.Body)}
		}
		return "", fmt.Errorf("devicecloud: fetching token: %w", err)
	}
	return tok.AccessToken, nil
}

// Publish sets property on thingID to value.
//
// Parameters:
//   - ctx: Request context
//   - thingID: Target thing
//   - property: Property name as defined on the thing
//   - value: JSON-encodable value
//
// Returns:
//   - error: ErrNotConfigured, *APIError for non-2xx answers, or a transport error
func (c *Client) Publish(ctx context.Context, thingID, property string, value any) error {
	if thingID == "" {
		return ErrNotConfigured
	}

	token, err := c.token()
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParams(map[string]string{
			"thing":    thingID,
			"property": property,
		}).
		SetBody(map[string]any{"value": value}).
		Put("/things/{thing}/properties/{property}/publish")
	if err != nil {
		return fmt.Errorf("devicecloud: publishing %s: %w", property, err)
	}
	if resp.IsError() {
		return &APIError{Op: "publish", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// PublishProperty sets a property on the configured thing.
func (c *Client) PublishProperty(ctx context.Context, property string, value any) error {
	return c.Publish(ctx, c.thingID, property, value)
}

// SetRelay publishes state to the configured relay property.
func (c *Client) SetRelay(ctx context.Context, state bool) error {
	return c.PublishProperty(ctx, c.props.Relay, state)
}
