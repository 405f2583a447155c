// Package promo turns scraped product metadata into short promotional texts
// via the OpenAI chat completions API, in the user's language.
package promo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"promo_bot/internal/storage"
	"promo_bot/pkg/metrics"
)

const (
	maxPromoLength   = 1500
	completionTokens = 400
	temperature      = 0.8
)

// DefaultHashtags pads out generated tag lists, matching the original bot's
// marketing fill.
var DefaultHashtags = []string{"#promo", "#sale", "#newproduct", "#shopping"}

var systemPrompts = map[storage.Language]string{
	storage.LangEN: "You are a marketing copywriter. Write a short, catchy promotional post in English for the product described by the user. Use at most 4 sentences, no markdown, include the price if known.",
	storage.LangRU: "Ты маркетолог-копирайтер. Напиши короткий, цепляющий рекламный пост на русском языке для товара, описанного пользователем. Не более 4 предложений, без разметки, укажи цену, если она известна.",
	storage.LangRO: "Ești un copywriter de marketing. Scrie o postare promoțională scurtă și atrăgătoare în română pentru produsul descris de utilizator. Cel mult 4 propoziții, fără markdown, include prețul dacă este cunoscut.",
}

// Generator produces promo texts for saved products.
type Generator struct {
	client *openai.Client
	model  string
	log    *zap.SugaredLogger
}

// New returns a Generator using the given API key.
func New(apiKey string, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		log:    log,
	}
}

// Generate writes a promo text for p in the given language. The model output
// is sanitized before it goes anywhere near the store or a channel.
func (g *Generator) Generate(ctx context.Context, p storage.ProductRecord, lang storage.Language) (string, error) {
	sys, ok := systemPrompts[lang]
	if !ok {
		sys = systemPrompts[storage.LangEN]
		lang = storage.LangEN
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Product: %s\n", p.Name)
	if p.Price != "" {
		fmt.Fprintf(&desc, "Price: %s\n", p.Price)
	}
	if p.Brand != "" {
		fmt.Fprintf(&desc, "Brand: %s\n", p.Brand)
	}
	if p.Description != "" {
		fmt.Fprintf(&desc, "Description: %s\n", p.Description)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		MaxTokens:   completionTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, Content: desc.String()},
		},
	})
	if err != nil {
		g.log.Warnw("promo generation failed", "product", p.Name, "err", err)
		return "", fmt.Errorf("generate promo: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate promo: empty completion")
	}

	text := storage.Sanitize(resp.Choices[0].Message.Content, maxPromoLength)
	if text == "" {
		return "", fmt.Errorf("generate promo: completion sanitized to nothing")
	}

	metrics.IncrementPromoGenerated(string(lang))
	return text, nil
}

var wordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Hashtags derives up to max hashtags from a product name: alphabetic words
// longer than two characters, padded with the default marketing tags.
func Hashtags(productName string, max int) string {
	if max <= 0 {
		max = 6
	}
	name := storage.Sanitize(productName, 200)
	words := strings.Fields(wordPattern.ReplaceAllString(strings.ToLower(name), " "))

	var tags []string
	for _, w := range words {
		if len([]rune(w)) > 2 && isAlpha(w) {
			tags = append(tags, "#"+w)
		}
	}
	tags = append(tags, DefaultHashtags...)
	if len(tags) > max {
		tags = tags[:max]
	}
	return strings.Join(tags, " ")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
