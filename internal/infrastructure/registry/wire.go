// Package registry implements the outbound client for the external
// trademark-search provider and the client-side result filters applied on top
// of its single-keyword search endpoint.
package registry

import (
	"fmt"
	"time"

	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// ─────────────────────────────────────────────────────────────────────────────
// Provider wire format
// ─────────────────────────────────────────────────────────────────────────────

// searchResponse is the provider's /search/ payload.
type searchResponse struct {
	Total  int            `json:"total"`
	Result []searchRecord `json:"result"`
}

// searchRecord is one mark as the provider returns it from keyword search.
// Field names follow the provider's wire contract, misspellings included.
type searchRecord struct {
	MID        int64     `json:"mid"`
	Verbal     string    `json:"verbal"`
	Status     string    `json:"status"`
	Class      []int     `json:"class"`
	Submition  string    `json:"submition"`
	Protection []string  `json:"protection"`
	App        string    `json:"app"`
	Reg        string    `json:"reg"`
	Date       wireDates `json:"date"`
	Accuracy   int       `json:"accuracy"`
}

// infoResponse is the provider's /info/ payload for a single mark.  It carries
// the owner block and class descriptions the search endpoint omits.
type infoResponse struct {
	MID        int64       `json:"mid"`
	Verbal     string      `json:"verbal"`
	Status     string      `json:"status"`
	Class      []infoClass `json:"class"`
	Submition  string      `json:"submition"`
	Protection []string    `json:"protection"`
	App        string      `json:"app"`
	Reg        string      `json:"reg"`
	Date       wireDates   `json:"date"`
	Owner      *wireOwner  `json:"owner"`
	Accuracy   int         `json:"accuracy"`
}

type infoClass struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

type wireOwner struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country"`
}

type wireDates struct {
	Applied    string `json:"applied"`
	Granted    string `json:"granted"`
	Expiration string `json:"expiration"`
	Renewal    string `json:"renewal"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalization
// ─────────────────────────────────────────────────────────────────────────────

// parseWireDate turns the provider's compact YYYYMMDD form into a time value.
// Anything that is not exactly eight valid digits is treated as absent.
func parseWireDate(s string) *time.Time {
	if len(s) != 8 {
		return nil
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return nil
	}
	return &t
}

// normalizeStatus maps the provider's three-letter status onto the engine's
// vocabulary.  Unrecognized values collapse to unknown rather than failing
// the whole record.
func normalizeStatus(s string) trademark.MarkStatus {
	switch s {
	case "LIVE":
		return trademark.StatusActive
	case "DEAD":
		return trademark.StatusExpired
	default:
		return trademark.StatusUnknown
	}
}

// registryID builds the engine-wide stable identifier for a provider record.
func registryID(mid int64) string {
	return fmt.Sprintf("tm-%d", mid)
}

// normalizeSearchRecord converts one wire record into the engine's hit type.
// A mark without a verbal element gets a synthetic display name so downstream
// scoring never sees an empty string.
func normalizeSearchRecord(rec searchRecord) trademark.RawRegistryHit {
	name := rec.Verbal
	if name == "" {
		name = fmt.Sprintf("TM-%d", rec.MID)
	}
	return trademark.RawRegistryHit{
		RegistryID:         registryID(rec.MID),
		Name:               name,
		Status:             normalizeStatus(rec.Status),
		NiceClasses:        rec.Class,
		Office:             rec.Submition,
		DesignationCodes:   rec.Protection,
		Accuracy:           rec.Accuracy,
		ApplicationNumber:  rec.App,
		RegistrationNumber: rec.Reg,
		ApplicationDate:    parseWireDate(rec.Date.Applied),
		RegistrationDate:   parseWireDate(rec.Date.Granted),
		ExpiryDate:         parseWireDate(rec.Date.Expiration),
	}
}

// normalizeInfoResponse converts a full-record response into the hit plus the
// holder enrichment that only the /info/ endpoint provides.
func normalizeInfoResponse(info infoResponse) (trademark.RawRegistryHit, *trademark.HolderDetail) {
	name := info.Verbal
	if name == "" {
		name = fmt.Sprintf("TM-%d", info.MID)
	}
	classes := make([]int, 0, len(info.Class))
	goods := ""
	for _, c := range info.Class {
		classes = append(classes, c.Number)
		if c.Description != "" {
			if goods != "" {
				goods += " | "
			}
			goods += c.Description
		}
	}

	hit := trademark.RawRegistryHit{
		RegistryID:         registryID(info.MID),
		Name:               name,
		Status:             normalizeStatus(info.Status),
		NiceClasses:        classes,
		Office:             info.Submition,
		DesignationCodes:   info.Protection,
		Accuracy:           info.Accuracy,
		ApplicationNumber:  info.App,
		RegistrationNumber: info.Reg,
		ApplicationDate:    parseWireDate(info.Date.Applied),
		RegistrationDate:   parseWireDate(info.Date.Granted),
		ExpiryDate:         parseWireDate(info.Date.Expiration),
	}

	detail := &trademark.HolderDetail{GoodsServices: goods}
	if info.Owner != nil {
		detail.Holder = info.Owner.Name
		detail.HolderCountry = info.Owner.Country
	}
	if detail.Holder == "" && detail.HolderCountry == "" && detail.GoodsServices == "" {
		detail = nil
	}
	return hit, detail
}
