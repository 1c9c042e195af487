// Package calendar talks to the external calendar provider's REST API. Busy
// intervals are a veto signal only; nothing fetched here is persisted.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/pkg/config"
	"drivebook/internal/pkg/errs"
	"drivebook/internal/usecase/commands"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(cfg config.CalendarConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
	}
}

type busyResponse struct {
	Busy []struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"busy"`
}

func (c *Client) BusyIntervals(ctx context.Context, accountRef string, window schedule.TimeWindow) ([]schedule.TimeWindow, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/freebusy?from=%s&to=%s",
		c.baseURL,
		url.PathEscape(accountRef),
		url.QueryEscape(window.Start().Format(time.RFC3339)),
		url.QueryEscape(window.End().Format(time.RFC3339)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build freebusy request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Mark(err, commands.ErrCalendarUnavailable)
	}
	defer resp.Body.Close()

	// Unauthorized means "could not verify", same as unreachable.
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Mark(
			errs.Newf("freebusy returned status %d", resp.StatusCode),
			commands.ErrCalendarUnavailable,
		)
	}

	var body busyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Mark(err, commands.ErrCalendarUnavailable)
	}

	intervals := make([]schedule.TimeWindow, 0, len(body.Busy))
	for _, b := range body.Busy {
		w, err := schedule.NewTimeWindow(b.Start, b.End)
		if err != nil {
			continue
		}
		if w.Overlaps(window) {
			intervals = append(intervals, w)
		}
	}
	return intervals, nil
}

type createEventRequest struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type createEventResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreateEvent(ctx context.Context, accountRef string, ev commands.CalendarEvent) (string, error) {
	payload, err := json.Marshal(createEventRequest{
		Summary: ev.Summary,
		Start:   ev.Window.Start(),
		End:     ev.Window.End(),
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to marshal calendar event")
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(accountRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errs.Wrap(err, "failed to build create-event request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.Mark(err, commands.ErrCalendarUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", errs.Mark(
			errs.Newf("create event returned status %d", resp.StatusCode),
			commands.ErrCalendarUnavailable,
		)
	}

	var body createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errs.Mark(err, commands.ErrCalendarUnavailable)
	}
	return body.ID, nil
}
