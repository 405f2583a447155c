package storage

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct(name string) ProductRecord {
	return ProductRecord{
		Name:  name,
		Price: "$19.99",
		URL:   "https://example.com/p/" + name,
	}
}

func TestUserRecord_SanitizedCapsProducts(t *testing.T) {
	rec := NewUserRecord()
	for i := 0; i < 6; i++ {
		rec.Products = append(rec.Products, validProduct(fmt.Sprintf("P%d", i)))
	}

	clean := rec.sanitized(5, DefaultHistoryCap)
	require.Len(t, clean.Products, 5)
	for i, p := range clean.Products {
		assert.Equal(t, fmt.Sprintf("P%d", i), p.Name, "first five must survive in order")
	}
}

func TestUserRecord_SanitizedDropsInvalidProducts(t *testing.T) {
	rec := NewUserRecord()
	rec.Products = []ProductRecord{
		validProduct("keep"),
		{Name: "no url", URL: "javascript:alert(1)"},
		{Name: "", URL: "https://example.com/anon"},
		{Name: "internal", URL: "http://192.168.0.1/p"},
	}

	clean := rec.sanitized(5, DefaultHistoryCap)
	require.Len(t, clean.Products, 1)
	assert.Equal(t, "keep", clean.Products[0].Name)
	assert.NotEmpty(t, clean.Products[0].SecurityHash)
	assert.NotEmpty(t, clean.Products[0].AddedAt, "missing timestamps are backfilled")
}

func TestUserRecord_SanitizedCoercesLanguage(t *testing.T) {
	rec := &UserRecord{Language: "zz"}
	assert.Equal(t, LangEN, rec.sanitized(5, DefaultHistoryCap).Language)

	rec = &UserRecord{Language: LangRO}
	assert.Equal(t, LangRO, rec.sanitized(5, DefaultHistoryCap).Language)

	var nilRec *UserRecord
	clean := nilRec.sanitized(5, DefaultHistoryCap)
	require.NotNil(t, clean)
	assert.Equal(t, LangEN, clean.Language)
}

func TestUserRecord_SanitizedKeepsNewestHistory(t *testing.T) {
	rec := NewUserRecord()
	for i := 0; i < 60; i++ {
		rec.PostHistory = append(rec.PostHistory, NewPostRecord(fmt.Sprintf("item %d", i), "success"))
	}

	clean := rec.sanitized(5, DefaultHistoryCap)
	require.Len(t, clean.PostHistory, DefaultHistoryCap)
	assert.Equal(t, "item 10", clean.PostHistory[0].Product)
	assert.Equal(t, "item 59", clean.PostHistory[len(clean.PostHistory)-1].Product)
}

func TestUserRecord_AppendPostEvictsOldest(t *testing.T) {
	rec := NewUserRecord()
	for i := 0; i < 55; i++ {
		rec.AppendPost(NewPostRecord(fmt.Sprintf("item %d", i), "success"), 50)
	}
	require.Len(t, rec.PostHistory, 50)
	assert.Equal(t, "item 5", rec.PostHistory[0].Product)
}

func TestUserRecord_ProductOperations(t *testing.T) {
	rec := NewUserRecord()
	assert.True(t, rec.AddProduct(validProduct("a"), 2))
	assert.True(t, rec.AddProduct(validProduct("b"), 2))
	assert.False(t, rec.AddProduct(validProduct("c"), 2), "cap reached")

	assert.False(t, rec.RemoveProduct(5))
	assert.False(t, rec.RemoveProduct(-1))
	assert.True(t, rec.RemoveProduct(0))
	require.Len(t, rec.Products, 1)
	assert.Equal(t, "b", rec.Products[0].Name)

	assert.Equal(t, 1, rec.ClearProducts())
	assert.Empty(t, rec.Products)
}

func TestCounterSet_AddClampsAtZero(t *testing.T) {
	c := &CounterSet{}

	v, ok := c.add(CounterTotalUsers, 3)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)

	v, ok = c.add(CounterTotalUsers, -10)
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)

	_, ok = c.add("made_up_counter", 1)
	assert.False(t, ok)
}

func TestUsersDocument_RoundTrip(t *testing.T) {
	doc := newUsersDocument()
	doc.Users["12345"] = &UserRecord{Language: LangRU, Products: []ProductRecord{validProduct("x")}}
	doc.Meta = &Metadata{LastModified: "2026-01-02T03:04:05Z", SecurityHash: "abc", Version: schemaVersion}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var back usersDocument
	require.NoError(t, json.Unmarshal(data, &back))
	require.Contains(t, back.Users, "12345")
	assert.Equal(t, LangRU, back.Users["12345"].Language)
	require.NotNil(t, back.Meta)
	assert.Equal(t, schemaVersion, back.Meta.Version)
}

func TestUsersDocument_SkipsForeignAndMangledEntries(t *testing.T) {
	raw := []byte(`{
		"12345": {"language": "en", "products": [], "post_history": []},
		"not-an-id": {"language": "en"},
		"67890": "this is not a record",
		"_metadata": {"last_modified": "x", "security_hash": "y", "version": 2}
	}`)

	var doc usersDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Users, 1)
	assert.Contains(t, doc.Users, "12345")
	require.NotNil(t, doc.Meta)
}
