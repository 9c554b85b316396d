package cowin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/slotfinder/internal/domain/appointment"
)

// CalendarByPin returns the centres for a region code, with sessions for the
// seven days starting at date.
func (c *Client) CalendarByPin(ctx context.Context, token, pin string, date appointment.Date) ([]Center, error) {
	q := url.Values{"pincode": {pin}, "date": {date.String()}}
	return c.calendar(ctx, "/v2/appointment/sessions/calendarByPin", token, q)
}

func (c *Client) CalendarByDistrict(ctx context.Context, token string, districtID int, date appointment.Date) ([]Center, error) {
	q := url.Values{"district_id": {strconv.Itoa(districtID)}, "date": {date.String()}}
	return c.calendar(ctx, "/v2/appointment/sessions/calendarByDistrict", token, q)
}

func (c *Client) calendar(ctx context.Context, path, token string, q url.Values) ([]Center, error) {
	if token == "" {
		path = publicPath(path)
	}
	var res calendarResponse
	if err := c.do(ctx, http.MethodGet, path, token, q, nil, &res); err != nil {
		return nil, err
	}
	return res.Centers, nil
}

// Schedule books a slot and returns the confirmation number.
func (c *Client) Schedule(ctx context.Context, token string, req ScheduleRequest) (string, error) {
	var res scheduleResponse
	if err := c.do(ctx, http.MethodPost, "/v2/appointment/schedule", token, nil, req, &res); err != nil {
		return "", err
	}
	if res.ConfirmationNo != "" {
		return res.ConfirmationNo, nil
	}
	return res.AppointmentID, nil
}

// publicPath maps a protected session endpoint to its unauthenticated twin.
func publicPath(path string) string {
	const prefix = "/v2/appointment/sessions/"
	if rest, ok := strings.CutPrefix(path, prefix); ok {
		return prefix + "public/" + rest
	}
	return path
}
