package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL        = "https://cloud-api.yandex.net/v1/disk"
	DefaultAuthScheme     = "OAuth"
	DefaultAccountTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	resourcesPath = "/resources"
	uploadPath    = "/resources/upload"

	// maxErrorBody bounds how much of a failed response ends up in an error.
	maxErrorBody = 512
)

// DiskOption defines a functional option for configuring a Disk client.
type DiskOption func(*Disk)

// Disk talks to the cloud disk REST API with a static token.
type Disk struct {
	BaseURL        string
	Token          string
	AuthScheme     string
	AccountTimeout time.Duration
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

var _ Client = (*Disk)(nil)

// NewDisk creates a Disk client for token with defaults and supplied options.
func NewDisk(token string, opts ...DiskOption) *Disk {
	d := &Disk{
		BaseURL:        DefaultBaseURL,
		Token:          token,
		AuthScheme:     DefaultAuthScheme,
		AccountTimeout: DefaultAccountTimeout,
		RequestTimeout: DefaultRequestTimeout,
		HTTPClient:     &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.BaseURL = strings.TrimRight(d.BaseURL, "/")
	return d
}

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) DiskOption {
	return func(d *Disk) {
		if baseURL != "" {
			d.BaseURL = baseURL
		}
	}
}

// WithAuthScheme overrides the Authorization header scheme.
func WithAuthScheme(scheme string) DiskOption {
	return func(d *Disk) {
		if scheme != "" {
			d.AuthScheme = scheme
		}
	}
}

// WithTimeouts overrides the account check and per-request timeouts.
func WithTimeouts(account, request time.Duration) DiskOption {
	return func(d *Disk) {
		if account > 0 {
			d.AccountTimeout = account
		}
		if request > 0 {
			d.RequestTimeout = request
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) DiskOption {
	return func(d *Disk) {
		if c != nil {
			d.HTTPClient = c
		}
	}
}

// CheckAuth calls the account-info endpoint. Any status but 200 is an error.
func (d *Disk) CheckAuth(ctx context.Context) (Account, error) {
	resp, err := d.do(ctx, d.AccountTimeout, http.MethodGet, d.BaseURL, nil)
	if err != nil {
		return Account{}, fmt.Errorf("account info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Account{}, statusError("account info", resp)
	}

	var body struct {
		User struct {
			DisplayName string `json:"display_name"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Account{}, fmt.Errorf("decode account info: %w", err)
	}
	return Account{DisplayName: body.User.DisplayName}, nil
}

// EnsureFolder creates folder at the disk root. An existing folder is not an error.
func (d *Disk) EnsureFolder(ctx context.Context, folder string) (FolderState, error) {
	q := url.Values{"path": {"/" + folder}}
	resp, err := d.do(ctx, d.RequestTimeout, http.MethodPut, d.endpoint(resourcesPath, q), nil)
	if err != nil {
		return 0, fmt.Errorf("create folder: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return FolderCreated, nil
	case http.StatusConflict:
		return FolderExisted, nil
	default:
		return 0, statusError("create folder", resp)
	}
}

// RequestUploadSlot asks for an upload href for path.
func (d *Disk) RequestUploadSlot(ctx context.Context, path string, overwrite bool) (UploadSlot, error) {
	q := url.Values{
		"path":      {path},
		"overwrite": {strconv.FormatBool(overwrite)},
	}
	resp, err := d.do(ctx, d.RequestTimeout, http.MethodGet, d.endpoint(uploadPath, q), nil)
	if err != nil {
		return UploadSlot{}, fmt.Errorf("request upload slot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UploadSlot{}, statusError("request upload slot", resp)
	}

	var slot UploadSlot
	if err := json.NewDecoder(resp.Body).Decode(&slot); err != nil {
		return UploadSlot{}, fmt.Errorf("decode upload slot: %w", err)
	}
	if slot.Href == "" {
		return UploadSlot{}, ErrNoUploadHref
	}
	return slot, nil
}

// PutBytes PUTs data to the slot href. The href is pre-signed, so no
// Authorization header is sent. Only 201 counts as success.
func (d *Disk) PutBytes(ctx context.Context, slot UploadSlot, data []byte, contentType string) error {
	if slot.Href == "" {
		return ErrNoUploadHref
	}
	if slot.Method != "" && !strings.EqualFold(slot.Method, http.MethodPut) {
		return fmt.Errorf("%w: %s", ErrUploadMethod, slot.Method)
	}

	ctx, cancel := context.WithTimeout(ctx, d.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, slot.Href, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload bytes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError("upload bytes", resp)
	}
	return nil
}

// GetObjectInfo returns the metadata of the object at path.
func (d *Disk) GetObjectInfo(ctx context.Context, path string) (ObjectInfo, error) {
	q := url.Values{"path": {path}}
	resp, err := d.do(ctx, d.RequestTimeout, http.MethodGet, d.endpoint(resourcesPath, q), nil)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("object info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ObjectInfo{}, statusError("object info", resp)
	}

	var info ObjectInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ObjectInfo{}, fmt.Errorf("decode object info: %w", err)
	}
	return info, nil
}

func (d *Disk) endpoint(path string, q url.Values) string {
	return d.BaseURL + path + "?" + q.Encode()
}

// do sends an authenticated API request bounded by timeout. The caller closes
// the body. The timeout covers reading the body too, so the cancel func is
// tied to the body.
func (d *Disk) do(
	ctx context.Context,
	timeout time.Duration,
	method, target string,
	body io.Reader,
) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Authorization", d.AuthScheme+" "+d.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func statusError(op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, Code: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
}
