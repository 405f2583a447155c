package promo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashtags_FromProductName(t *testing.T) {
	tags := Hashtags("Super Wireless Headphones 2000", 6)
	assert.Equal(t, "#super #wireless #headphones #promo #sale #newproduct", tags)
}

func TestHashtags_PadsWithDefaults(t *testing.T) {
	assert.Equal(t, "#promo #sale #newproduct #shopping", Hashtags("X1 42", 6))
	assert.Equal(t, "#promo #sale #newproduct #shopping", Hashtags("", 6))
}

func TestHashtags_RespectsCap(t *testing.T) {
	tags := Hashtags("Amazing Portable Bluetooth Speaker Deluxe Edition", 3)
	assert.Equal(t, "#amazing #portable #bluetooth", tags)

	zero := Hashtags("Lamp", 0)
	assert.Len(t, strings.Fields(zero), 5, "non-positive cap falls back to six; 'lamp' plus four defaults")
}

func TestHashtags_NonLatinWords(t *testing.T) {
	tags := Hashtags("Умные часы Ceas inteligent", 6)
	assert.Contains(t, tags, "#умные")
	assert.Contains(t, tags, "#часы")
	assert.Contains(t, tags, "#ceas")
	assert.Contains(t, tags, "#inteligent")
}

func TestHashtags_StripsPunctuation(t *testing.T) {
	tags := Hashtags("Gaming, Mouse!!! (RGB)", 6)
	assert.Contains(t, tags, "#gaming")
	assert.Contains(t, tags, "#mouse")
	assert.Contains(t, tags, "#rgb")
	assert.NotContains(t, tags, "!")
	assert.NotContains(t, tags, "(")
}
