package eagle

import (
	"strings"

	"listing-sync/core/reconcile"
	"listing-sync/core/utils"
)

// document is a JSON:API top-level document.
type document struct {
	Data   []resource `json:"data"`
	Errors []apiError `json:"errors"`
}

type singleDocument struct {
	Data   *resource  `json:"data"`
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func firstError(errs []apiError) string {
	if len(errs) == 0 {
		return ""
	}
	if errs[0].Detail != "" {
		return errs[0].Detail
	}
	return errs[0].Title
}

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Links struct {
		Related string `json:"related"`
	} `json:"links"`
}

func (r resource) attr(key string) string {
	return strings.TrimSpace(utils.ToString(r.Attributes[key]))
}

// toRecord maps a property resource to a SourceRecord. The raw attributes are
// kept for presentation.
func (r resource) toRecord() reconcile.SourceRecord {
	return reconcile.SourceRecord{
		ID:           r.ID,
		Address:      r.attr("full_address"),
		State:        r.attr("state"),
		Postcode:     r.attr("postcode"),
		Headline:     r.attr("headline"),
		Description:  r.attr("description"),
		Status:       reconcile.ParseStatus(r.attr("status")),
		Market:       reconcile.ParseMarket(r.attr("sale_or_rent")),
		UpdatedAt:    r.attr("updated_at"),
		PrimaryImage: r.attr("primary_image"),
		AgentIDs:     utils.ToStrings(r.Attributes["agent_ids"]),
		Attributes:   r.Attributes,
	}
}

func (r resource) toSubResource() reconcile.SubResource {
	attrs := make(map[string]string, len(r.Attributes))
	for k, v := range r.Attributes {
		attrs[k] = utils.ToString(v)
	}
	return reconcile.SubResource{ID: r.ID, URL: attrs["url"], Attributes: attrs}
}

func (r resource) toAgent() reconcile.Agent {
	return reconcile.Agent{ID: r.ID, Name: r.attr("name")}
}
