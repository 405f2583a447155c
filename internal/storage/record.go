package storage

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Language of a user's interface. Anything outside the supported set is
// coerced to English during validation.
type Language string

const (
	LangEN Language = "en"
	LangRU Language = "ru"
	LangRO Language = "ro"
)

// Counter names accepted by UpdateCounter. Anything else is audited and
// dropped.
const (
	CounterTotalUsers           = "total_users"
	CounterTotalMessages        = "total_messages"
	CounterTotalPromosGenerated = "total_promos_generated"
	CounterTotalPostsToChannels = "total_posts_to_channels"
	CounterTotalErrors          = "total_errors"
)

// CounterNames is the whitelist of statistics the store will track.
var CounterNames = []string{
	CounterTotalUsers,
	CounterTotalMessages,
	CounterTotalPromosGenerated,
	CounterTotalPostsToChannels,
	CounterTotalErrors,
}

// Field length caps applied during sanitization.
const (
	maxProductNameLen = 200
	maxPriceLen       = 50
	maxURLLen         = 2000
	maxBrandLen       = 100
	maxDescriptionLen = 500
	maxChannelIDLen   = 100
	maxStatusLen      = 100
)

// schemaVersion is stamped into every document's metadata envelope.
const schemaVersion = 2

// Metadata is the envelope persisted alongside each document's payload.
// SecurityHash is the sha256 of the payload serialized without the envelope.
type Metadata struct {
	LastModified string `json:"last_modified"`
	SecurityHash string `json:"security_hash"`
	Version      int    `json:"version"`
}

// ProductRecord is one saved product. Name and URL are mandatory after
// sanitization; a record failing either is dropped wholesale rather than
// persisted half-valid.
type ProductRecord struct {
	Name         string `json:"name"`
	Price        string `json:"price,omitempty"`
	URL          string `json:"url"`
	Brand        string `json:"brand,omitempty"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	AddedAt      string `json:"added_timestamp,omitempty"`
	SecurityHash string `json:"security_hash,omitempty"`
}

// sanitized returns a cleaned copy of p and whether the product survives
// validation. The security hash is recomputed from the cleaned fields so a
// later spot-check can detect out-of-band edits.
func (p ProductRecord) sanitized() (ProductRecord, bool) {
	clean := ProductRecord{
		Name:  Sanitize(p.Name, maxProductNameLen),
		Price: Sanitize(p.Price, maxPriceLen),
	}
	if clean.Name == "" {
		return ProductRecord{}, false
	}
	if ok, _ := ValidateURL(p.URL); !ok {
		return ProductRecord{}, false
	}
	clean.URL = Sanitize(p.URL, maxURLLen)
	clean.Brand = Sanitize(p.Brand, maxBrandLen)
	clean.Description = Sanitize(p.Description, maxDescriptionLen)
	if ok, _ := ValidateURL(p.ImageURL); ok {
		clean.ImageURL = Sanitize(p.ImageURL, maxURLLen)
	}
	clean.AddedAt = Sanitize(p.AddedAt, maxStatusLen)
	if clean.AddedAt == "" {
		clean.AddedAt = time.Now().Format(time.RFC3339)
	}
	clean.SecurityHash = p.contentHash(clean)
	return clean, true
}

// contentHash digests the sanitized product fields. Used only for integrity
// spot-checks, never for access control.
func (ProductRecord) contentHash(p ProductRecord) string {
	return HashBytes([]byte(strings.Join([]string{
		p.Name, p.Price, p.URL, p.Brand, p.Description, p.ImageURL, p.AddedAt,
	}, "\x1f")))
}

// PostRecord is one entry of a user's channel posting history. Timestamp is
// free-form text and intentionally never parsed.
type PostRecord struct {
	Product   string `json:"product"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Hash      string `json:"hash,omitempty"`
}

// NewPostRecord builds a history entry for the given product and outcome.
// status should be "success" or "failed: <reason>".
func NewPostRecord(product, status string) PostRecord {
	p := PostRecord{
		Product:   Sanitize(product, maxProductNameLen),
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    Sanitize(status, maxStatusLen),
	}
	p.Hash = p.contentHash()
	return p
}

func (p PostRecord) contentHash() string {
	return HashBytes([]byte(p.Product + "\x1f" + p.Timestamp + "\x1f" + p.Status))
}

// sanitized returns a cleaned copy of p and whether the entry survives.
// Entries without a product are historical noise and are dropped.
func (p PostRecord) sanitized() (PostRecord, bool) {
	clean := PostRecord{
		Product:   Sanitize(p.Product, maxProductNameLen),
		Timestamp: Sanitize(p.Timestamp, maxStatusLen),
		Status:    Sanitize(p.Status, maxStatusLen),
	}
	if clean.Product == "" {
		return PostRecord{}, false
	}
	clean.Hash = clean.contentHash()
	return clean, true
}

// ChannelInfo holds a user's target channel configuration.
type ChannelInfo struct {
	ChannelID    string `json:"channel_id"`
	AutoPost     bool   `json:"auto_post"`
	LastVerified string `json:"last_verified,omitempty"`
}

// UserRecord is the persisted state of one bot user. Callers receive and
// hand over copies; mutations reach disk only through SaveUser.
type UserRecord struct {
	Language    Language        `json:"language"`
	Products    []ProductRecord `json:"products"`
	ChannelInfo *ChannelInfo    `json:"channel_info,omitempty"`
	PostHistory []PostRecord    `json:"post_history"`
	LastUpdated string          `json:"last_updated,omitempty"`
}

// NewUserRecord returns the empty default record used both for first contact
// and as the fail-open fallback when a persisted record cannot be validated.
func NewUserRecord() *UserRecord {
	return &UserRecord{
		Language:    LangEN,
		Products:    []ProductRecord{},
		PostHistory: []PostRecord{},
	}
}

// AddProduct appends p if the record is below the given cap. Returns false
// when the cap is reached; the caller decides how to surface that.
func (u *UserRecord) AddProduct(p ProductRecord, maxProducts int) bool {
	if len(u.Products) >= maxProducts {
		return false
	}
	u.Products = append(u.Products, p)
	return true
}

// RemoveProduct deletes the product at index i, preserving order.
func (u *UserRecord) RemoveProduct(i int) bool {
	if i < 0 || i >= len(u.Products) {
		return false
	}
	u.Products = append(u.Products[:i], u.Products[i+1:]...)
	return true
}

// ClearProducts removes all products and returns how many were dropped.
func (u *UserRecord) ClearProducts() int {
	n := len(u.Products)
	u.Products = []ProductRecord{}
	return n
}

// AppendPost records a posting attempt, evicting the oldest entries beyond
// the history cap.
func (u *UserRecord) AppendPost(p PostRecord, historyCap int) {
	u.PostHistory = append(u.PostHistory, p)
	if len(u.PostHistory) > historyCap {
		u.PostHistory = u.PostHistory[len(u.PostHistory)-historyCap:]
	}
}

// sanitized rebuilds the record field by field, coercing the language,
// dropping invalid products and history entries, and enforcing both caps.
// The result is always usable: a record that fails validation entirely
// degrades to the empty default, never to an error.
func (u *UserRecord) sanitized(maxProducts, historyCap int) *UserRecord {
	clean := NewUserRecord()
	if u == nil {
		return clean
	}

	switch u.Language {
	case LangEN, LangRU, LangRO:
		clean.Language = u.Language
	default:
		clean.Language = LangEN
	}

	for _, p := range u.Products {
		if len(clean.Products) >= maxProducts {
			break
		}
		if cp, ok := p.sanitized(); ok {
			clean.Products = append(clean.Products, cp)
		}
	}

	if u.ChannelInfo != nil {
		clean.ChannelInfo = &ChannelInfo{
			ChannelID:    Sanitize(u.ChannelInfo.ChannelID, maxChannelIDLen),
			AutoPost:     u.ChannelInfo.AutoPost,
			LastVerified: Sanitize(u.ChannelInfo.LastVerified, maxStatusLen),
		}
	}

	history := u.PostHistory
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	for _, p := range history {
		if cp, ok := p.sanitized(); ok {
			clean.PostHistory = append(clean.PostHistory, cp)
		}
	}

	clean.LastUpdated = u.LastUpdated
	return clean
}

// CounterSet is the aggregate statistics document. Values only grow under
// normal operation; decrements that would go negative clamp to zero.
type CounterSet struct {
	TotalUsers           int64  `json:"total_users"`
	TotalMessages        int64  `json:"total_messages"`
	TotalPromosGenerated int64  `json:"total_promos_generated"`
	TotalPostsToChannels int64  `json:"total_posts_to_channels"`
	TotalErrors          int64  `json:"total_errors"`
	StartTime            string `json:"start_time,omitempty"`
	LastUpdated          string `json:"last_updated,omitempty"`
}

// Value returns the named counter, or false for names outside the whitelist.
// Fields absent from the persisted document read as zero, which is how the
// schema self-heals.
func (c *CounterSet) Value(name string) (int64, bool) {
	switch name {
	case CounterTotalUsers:
		return c.TotalUsers, true
	case CounterTotalMessages:
		return c.TotalMessages, true
	case CounterTotalPromosGenerated:
		return c.TotalPromosGenerated, true
	case CounterTotalPostsToChannels:
		return c.TotalPostsToChannels, true
	case CounterTotalErrors:
		return c.TotalErrors, true
	}
	return 0, false
}

// add applies delta to the named counter, clamping the result at zero.
// Returns the new value and whether the name was known.
func (c *CounterSet) add(name string, delta int64) (int64, bool) {
	v, ok := c.Value(name)
	if !ok {
		return 0, false
	}
	v += delta
	if v < 0 {
		v = 0
	}
	switch name {
	case CounterTotalUsers:
		c.TotalUsers = v
	case CounterTotalMessages:
		c.TotalMessages = v
	case CounterTotalPromosGenerated:
		c.TotalPromosGenerated = v
	case CounterTotalPostsToChannels:
		c.TotalPostsToChannels = v
	case CounterTotalErrors:
		c.TotalErrors = v
	}
	return v, true
}

// usersDocument is the on-disk shape of users.json: stringified user ids at
// the top level plus the _metadata envelope.
type usersDocument struct {
	Users map[string]*UserRecord
	Meta  *Metadata
}

func newUsersDocument() *usersDocument {
	return &usersDocument{Users: map[string]*UserRecord{}}
}

func (d *usersDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Users)+1)
	for id, rec := range d.Users {
		out[id] = rec
	}
	if d.Meta != nil {
		out["_metadata"] = d.Meta
	}
	return json.Marshal(out)
}

func (d *usersDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Users = make(map[string]*UserRecord, len(raw))
	d.Meta = nil
	for k, v := range raw {
		if k == "_metadata" {
			meta := &Metadata{}
			if err := json.Unmarshal(v, meta); err == nil {
				d.Meta = meta
			}
			continue
		}
		if _, err := strconv.ParseInt(k, 10, 64); err != nil {
			// Foreign top-level keys are not user entries; skip them
			// rather than failing the whole document.
			continue
		}
		rec := &UserRecord{}
		if err := json.Unmarshal(v, rec); err != nil {
			// A single mangled entry degrades to the default record on
			// its next read; it must not take the document down.
			continue
		}
		d.Users[k] = rec
	}
	return nil
}

func (d *usersDocument) setMetadata(m *Metadata) { d.Meta = m }
func (d *usersDocument) clearMetadata()          { d.Meta = nil }

// statsDocument is the on-disk shape of stats.json.
type statsDocument struct {
	CounterSet
	Meta *Metadata `json:"_metadata,omitempty"`
}

func (d *statsDocument) setMetadata(m *Metadata) { d.Meta = m }
func (d *statsDocument) clearMetadata()          { d.Meta = nil }

// document is anything the atomic writer can persist with a metadata
// envelope.
type document interface {
	setMetadata(*Metadata)
	clearMetadata()
}
