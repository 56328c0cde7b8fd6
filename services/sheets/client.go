package sheetsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sendgrid/rest"

	"github.com/ascend-bim/gradebook/core"
	"github.com/ascend-bim/gradebook/core/student"
)

const (
	msgNoURL        = "URL de Google Apps Script no configurada"
	msgNetwork      = "Error en la red al conectar con Google Sheets"
	msgNotAList     = "la hoja no devolvió una lista de estudiantes"
	plainTextHeader = "text/plain;charset=utf-8"
)

// Client syncs the roster with a Google Apps Script web app.
//
// With fireAndForget set, pushes go out as plain text (the script endpoint cannot answer
// browser-style preflights) and the response is not inspected: a push that was dispatched
// is reported as student.SyncAssumed.
type Client struct {
	url           string
	fireAndForget bool
	readMode      bool
	http          *rest.Client
	logger        core.Logger
}

var _ student.SheetStore = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger, httpClient ...*http.Client) *Client {
	hc := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	return &Client{
		url:           conf.Sheets.URL,
		fireAndForget: conf.Sheets.FireAndForget,
		readMode:      conf.Sheets.ReadMode,
		http:          &rest.Client{HTTPClient: hc},
		logger:        logger,
	}
}

// send is rest.Client.Send bound to ctx.
func (c *Client) send(ctx context.Context, req rest.Request) (*rest.Response, error) {
	hr, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.HTTPClient.Do(hr.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return rest.BuildResponse(resp)
}

// readURL adds mode=read to the script URL, keeping any query it already has.
func readURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("mode", "read")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func failed(msg string) student.SyncResult {
	return student.SyncResult{Status: student.SyncFailed, Message: msg}
}

// Push sends the whole roster as one JSON array.
func (c *Client) Push(ctx context.Context, students []student.Student) student.SyncResult {
	if c.url == "" {
		return failed(msgNoURL)
	}
	if students == nil {
		students = []student.Student{}
	}
	body, err := json.Marshal(students)
	if err != nil {
		c.logger.Error(fmt.Sprintf("encoding roster: %v", err), err)
		return failed(err.Error())
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.url,
		Body:    body,
	}
	if c.fireAndForget {
		req.Headers = map[string]string{"Content-Type": plainTextHeader}
	} else {
		req.Headers = map[string]string{"Content-Type": "application/json"}
	}

	res, err := c.send(ctx, req)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("pushing roster: %v", err), err)
		return failed(msgNetwork + ": " + err.Error())
	}
	if c.fireAndForget {
		return student.SyncResult{Status: student.SyncAssumed}
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn(fmt.Sprintf("pushing roster - status: %d - Body: %s", res.StatusCode, res.Body))
		return failed(fmt.Sprintf("%s (HTTP %d)", msgNetwork, res.StatusCode))
	}
	return student.SyncResult{Status: student.SyncConfirmed}
}

// Pull reads the roster back. A response that is not a JSON array of students yields an empty roster.
func (c *Client) Pull(ctx context.Context) ([]student.Student, student.SyncResult) {
	if c.url == "" {
		return nil, failed(msgNoURL)
	}

	req := rest.Request{
		Method:  rest.Get,
		BaseURL: c.url,
	}
	if c.readMode {
		u, err := readURL(c.url)
		if err != nil {
			c.logger.Warn(fmt.Sprintf("pulling roster: %v", err), err)
			return nil, failed(msgNetwork + ": " + err.Error())
		}
		req.BaseURL = u
	}

	res, err := c.send(ctx, req)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("pulling roster: %v", err), err)
		return nil, failed(msgNetwork + ": " + err.Error())
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn(fmt.Sprintf("pulling roster - status: %d - Body: %s", res.StatusCode, res.Body))
		return nil, failed(fmt.Sprintf("%s (HTTP %d)", msgNetwork, res.StatusCode))
	}

	students, ok := decodeRoster([]byte(res.Body))
	if !ok {
		return []student.Student{}, student.SyncResult{Status: student.SyncConfirmed, Message: msgNotAList}
	}
	return students, student.SyncResult{Status: student.SyncConfirmed, Count: len(students)}
}
