package cowin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/slotfinder/internal/internaltypes"
)

func (c *Client) States(ctx context.Context) ([]State, error) {
	var res struct {
		States []State `json:"states"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/admin/location/states", "", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.States, nil
}

func (c *Client) Districts(ctx context.Context, stateID int) ([]District, error) {
	var res struct {
		Districts []District `json:"districts"`
	}
	path := "/v2/admin/location/districts/" + strconv.Itoa(stateID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Districts, nil
}

// ResolveDistrict maps a district name to its provider id. Names match
// case-insensitively; the full index is fetched once per client.
func (c *Client) ResolveDistrict(ctx context.Context, name string) (int, error) {
	key := districtKey(name)
	c.mu.Lock()
	idx := c.districts
	c.mu.Unlock()

	if idx == nil {
		built, err := c.buildDistrictIndex(ctx)
		if err != nil {
			return 0, err
		}
		c.mu.Lock()
		c.districts = built
		c.mu.Unlock()
		idx = built
	}
	id, ok := idx[key]
	if !ok {
		return 0, fmt.Errorf("cowin: district %q: %w", name, internaltypes.ErrNotFound)
	}
	return id, nil
}

func (c *Client) buildDistrictIndex(ctx context.Context) (map[string]int, error) {
	states, err := c.States(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	for _, s := range states {
		ds, err := c.Districts(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range ds {
			idx[districtKey(d.Name)] = d.ID
		}
	}
	c.logger.Printf("cowin: indexed %d districts across %d states", len(idx), len(states))
	return idx, nil
}

func districtKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
