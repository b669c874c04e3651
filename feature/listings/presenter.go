package listings

import (
	"context"
	"fmt"
	"strings"

	"listing-sync/core/reconcile"
	"listing-sync/core/utils"
	"listing-sync/core/wordpress"

	"go.uber.org/zap"
)

// AgentRoster lists the agents known to the CRM.
type AgentRoster interface {
	Agents(ctx context.Context) ([]reconcile.Agent, error)
}

// SiteAgents lists the agent profiles published on the site.
type SiteAgents interface {
	Agents(ctx context.Context) ([]wordpress.Agent, error)
}

var stateNames = map[string]string{
	"VIC": "Victoria",
	"ACT": "Australian Capital Territory",
	"NSW": "New South Wales",
	"NT":  "Northern Territory",
	"WA":  "Western Australia",
}

var featureAttributes = []string{
	"indoor_features",
	"heating_cooling_features",
	"eco_friendly_features",
	"outdoor_features",
	"other_features",
}

// Presenter builds the site presentation of a CRM record.
type Presenter struct {
	agentMap map[string]int
	roster   AgentRoster
	site     SiteAgents
	logger   *zap.Logger
}

// NewPresenter creates a Presenter. agentMap pins CRM agent ids to site agent ids;
// agents missing from it are looked up by name in the CRM roster and on the site.
func NewPresenter(agentMap map[string]int, roster AgentRoster, site SiteAgents, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if agentMap == nil {
		agentMap = map[string]int{}
	}
	return &Presenter{agentMap: agentMap, roster: roster, site: site, logger: logger}
}

// Present implements reconcile.Presenter.
func (p *Presenter) Present(ctx context.Context, rec reconcile.SourceRecord) (reconcile.Presentation, error) {
	attr := func(key string) string { return utils.ToString(rec.Attributes[key]) }

	latitude := attr("latitude")
	details := map[string]any{
		"property_type":              attr("property_type"),
		"property_feature":           features(rec),
		"property_city":              attr("suburb"),
		"property_area":              attr("municipality"),
		"property_state":             StateName(rec.State),
		"fave_property_price":        price(rec),
		"fave_property_land":         attr("land_size"),
		"fave_property_size_prefix":  attr("house_size_units"),
		"fave_property_land_postfix": attr("land_size_units"),
		"fave_property_bedrooms":     attr("bedrooms"),
		"fave_property_bathrooms":    attr("bathrooms"),
		"fave_property_garage":       attr("garage_spaces"),
		"houzez_geolocation_lat":     latitude,
		"houzez_geolocation_long":    attr("longitude"),
		"fave_property_map_address":  rec.Address,
		"fave_property_location":     "",
		"fave_property_address":      attr("formatted_address_line_1"),
		"fave_property_zip":          rec.Postcode,
		"fave_agent_display_option":  "agent_info",
		"fave_video_url":             attr("video_url"),
	}
	if latitude != "" {
		details["fave_property_location"] = latitude + "," + attr("longitude")
	}

	if agent := p.resolveAgent(ctx, rec); agent != 0 {
		details["fave_agents"] = agent
	} else {
		details["fave_agents"] = ""
	}

	return reconcile.Presentation{
		Title:   fmt.Sprintf("%s, %s, %s", rec.Address, rec.State, rec.Postcode),
		Content: fmt.Sprintf("<p><strong>%s</strong></p>\n%s", rec.Headline, rec.Description),
		ShowMap: latitude != "",
		Details: details,
	}, nil
}

// resolveAgent maps the record's last listed agent to a site agent id. Zero means
// no agent could be resolved; the listing is then published without one. A roster
// that cannot be read counts as a miss.
func (p *Presenter) resolveAgent(ctx context.Context, rec reconcile.SourceRecord) int {
	if len(rec.AgentIDs) == 0 {
		return 0
	}
	crmID := rec.AgentIDs[len(rec.AgentIDs)-1]
	if id, ok := p.agentMap[crmID]; ok {
		return id
	}

	log := p.logger.With(zap.String("source_id", rec.ID), zap.String("agent_id", crmID))
	if p.roster == nil || p.site == nil {
		log.Warn("Agent is not in the agent map, publishing without an agent")
		return 0
	}

	roster, err := p.roster.Agents(ctx)
	if err != nil {
		log.Warn("Failed to list CRM agents, publishing without an agent", zap.Error(err))
		return 0
	}
	var name string
	for _, a := range roster {
		if a.ID == crmID {
			name = a.Name
			break
		}
	}
	if name == "" {
		log.Warn("Agent is not in the CRM roster, publishing without an agent")
		return 0
	}

	site, err := p.site.Agents(ctx)
	if err != nil {
		log.Warn("Failed to list site agents, publishing without an agent", zap.Error(err))
		return 0
	}
	for _, a := range site {
		if a.Name == name {
			return a.ID
		}
	}
	log.Warn("Agent was not found on the site, publishing without an agent", zap.String("name", name))
	return 0
}

// StateName returns the full name of an Australian state code, or the code itself.
func StateName(code string) string {
	if name, ok := stateNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// features splits the CRM's feature lists, separated by commas or pipes.
func features(rec reconcile.SourceRecord) []string {
	out := []string{}
	for _, key := range featureAttributes {
		raw := utils.ToString(rec.Attributes[key])
		for _, f := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '|' }) {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// price prefers the alternative price text, then a non-zero price, then the advertised price.
func price(rec reconcile.SourceRecord) string {
	if alt := utils.ToString(rec.Attributes["alt_to_price"]); alt != "" {
		return alt
	}
	if p := utils.ToString(rec.Attributes["price"]); p != "" && p != "0.0" && p != "0" {
		return p
	}
	return utils.ToString(rec.Attributes["advertised_price"])
}
