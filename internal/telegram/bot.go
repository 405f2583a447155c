package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"promo_bot/internal/promo"
	"promo_bot/internal/scraper"
	"promo_bot/internal/storage"
	"promo_bot/internal/translations"
)

// UserState represents where a chat currently is in an input flow.
type UserState int

const (
	StateIdle UserState = iota
	StateAwaitingProductLink
	StateAwaitingChannelID
)

// Callback button data. Indexed actions carry the product index after the
// colon, e.g. "product:2".
const (
	CallbackMainMenu        = "main_menu"
	CallbackLanguage        = "language"
	CallbackLangPrefix      = "lang:"
	CallbackMyProducts      = "my_products"
	CallbackAddProduct      = "add_product"
	CallbackClearAll        = "clear_all"
	CallbackProductPrefix   = "product:"
	CallbackDeletePrefix    = "delete:"
	CallbackPromoPrefix     = "promo:"
	CallbackPostPrefix      = "post:"
	CallbackChannelSettings = "channel_settings"
	CallbackSetChannel      = "set_channel"
	CallbackRemoveChannel   = "remove_channel"
	CallbackToggleAutopost  = "toggle_autopost"
	CallbackPostHistory     = "post_history"
	CallbackHelp            = "help"
	CallbackCancel          = "cancel"
)

// historyShown caps how many history entries a chat message displays.
const historyShown = 10

// promoDraft is the last generated text per chat, kept in memory until the
// user posts or regenerates.
type promoDraft struct {
	text        string
	productName string
}

// Bot handles Telegram commands, the menu state machine and channel posting.
// All durable per-user state lives in the record store; the bot keeps only
// transient flow state in memory.
type Bot struct {
	api       *tgbotapi.BotAPI
	store     *storage.Store
	scraper   *scraper.Scraper
	generator *promo.Generator
	limiter   *rateLimiter
	log       *zap.SugaredLogger

	maxProducts int

	mu     sync.RWMutex
	states map[int64]UserState
	drafts map[int64]promoDraft
}

// New creates a new Telegram bot instance.
func New(token string, store *storage.Store, sc *scraper.Scraper, gen *promo.Generator, maxProducts, rateLimit int, rateWindow time.Duration, logger *zap.SugaredLogger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	bot := &Bot{
		api:         api,
		store:       store,
		scraper:     sc,
		generator:   gen,
		limiter:     newRateLimiter(rateLimit, rateWindow),
		log:         logger,
		maxProducts: maxProducts,
		states:      make(map[int64]UserState),
		drafts:      make(map[int64]promoDraft),
	}

	bot.log.Infow("telegram bot authorized", "username", api.Self.UserName)
	return bot, nil
}

// Run starts the bot's update loop. It blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("telegram bot started, waiting for commands")

	for {
		select {
		case <-ctx.Done():
			b.log.Info("telegram bot: context cancelled, stopping")
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				go b.handleCallbackQuery(ctx, update.CallbackQuery)
			} else if update.Message != nil {
				go b.handleMessage(ctx, update.Message)
			}
		}
	}
}

// t resolves a translated string for the chat's stored language.
func (b *Bot) t(rec *storage.UserRecord, key string, args ...any) string {
	return translations.T(string(rec.Language), key, args...)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warnw("failed to send telegram message", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warnw("failed to send telegram message with keyboard", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) getState(chatID int64) UserState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.states[chatID]
}

func (b *Bot) setState(chatID int64, s UserState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s == StateIdle {
		delete(b.states, chatID)
		return
	}
	b.states[chatID] = s
}

// Keyboards

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", CallbackLangPrefix+"en"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", CallbackLangPrefix+"ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇴 Română", CallbackLangPrefix+"ro"),
		),
	)
}

func (b *Bot) mainMenuKeyboard(rec *storage.UserRecord) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_generate_promo"), CallbackMyProducts),
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_my_products"), CallbackMyProducts),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_channel_settings"), CallbackChannelSettings),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_help"), CallbackHelp),
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_language"), CallbackLanguage),
		),
	)
}

func (b *Bot) productsKeyboard(rec *storage.UserRecord) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, p := range rec.Products {
		label := fmt.Sprintf("%d. %s", i+1, p.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CallbackProductPrefix+strconv.Itoa(i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_add_product"), CallbackAddProduct),
		tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_clear_all"), CallbackClearAll),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_back_menu"), CallbackMainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) productDetailKeyboard(rec *storage.UserRecord, i int) tgbotapi.InlineKeyboardMarkup {
	idx := strconv.Itoa(i)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_generate_promo"), CallbackPromoPrefix+idx),
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_delete"), CallbackDeletePrefix+idx),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_back_menu"), CallbackMyProducts),
		),
	)
}

func (b *Bot) channelKeyboard(rec *storage.UserRecord) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_set_channel"), CallbackSetChannel),
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_remove_channel"), CallbackRemoveChannel),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_toggle_autopost"), CallbackToggleAutopost),
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_post_history"), CallbackPostHistory),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_back_menu"), CallbackMainMenu),
		),
	)
}

// Handlers

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	data := query.Data

	// Answer callback query to remove loading state
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	b.log.Debugw("received callback query", "chat_id", chatID, "data", data)
	b.store.UpdateCounter(storage.CounterTotalMessages, 1)

	rec := b.store.GetUser(chatID)
	if !b.limiter.allow(chatID) {
		b.send(chatID, b.t(rec, "rate_limited"))
		return
	}

	switch {
	case data == CallbackMainMenu:
		b.setState(chatID, StateIdle)
		b.showMainMenu(chatID, rec)
	case data == CallbackLanguage:
		b.sendWithKeyboard(chatID, b.t(rec, "welcome"), languageKeyboard())
	case strings.HasPrefix(data, CallbackLangPrefix):
		b.handleLanguageSelection(chatID, rec, strings.TrimPrefix(data, CallbackLangPrefix))
	case data == CallbackMyProducts:
		b.showProducts(chatID, rec)
	case data == CallbackAddProduct:
		b.promptAddProduct(chatID, rec)
	case data == CallbackClearAll:
		b.clearProducts(chatID, rec)
	case strings.HasPrefix(data, CallbackProductPrefix):
		b.showProductDetail(chatID, rec, parseIndex(data, CallbackProductPrefix))
	case strings.HasPrefix(data, CallbackDeletePrefix):
		b.deleteProduct(chatID, rec, parseIndex(data, CallbackDeletePrefix))
	case strings.HasPrefix(data, CallbackPromoPrefix):
		b.generatePromo(ctx, chatID, rec, parseIndex(data, CallbackPromoPrefix))
	case strings.HasPrefix(data, CallbackPostPrefix):
		b.postToChannel(chatID, rec)
	case data == CallbackChannelSettings:
		b.showChannelSettings(chatID, rec)
	case data == CallbackSetChannel:
		b.setState(chatID, StateAwaitingChannelID)
		b.send(chatID, b.t(rec, "channel_prompt"))
	case data == CallbackRemoveChannel:
		b.removeChannel(chatID, rec)
	case data == CallbackToggleAutopost:
		b.toggleAutopost(chatID, rec)
	case data == CallbackPostHistory:
		b.showPostHistory(chatID, rec)
	case data == CallbackHelp:
		b.send(chatID, b.t(rec, "help"))
	case data == CallbackCancel:
		b.setState(chatID, StateIdle)
		b.showMainMenu(chatID, rec)
	default:
		b.send(chatID, b.t(rec, "unknown"))
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Text == "" {
		return
	}

	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	b.log.Debugw("received telegram message", "chat_id", chatID)
	b.store.UpdateCounter(storage.CounterTotalMessages, 1)

	rec := b.store.GetUser(chatID)
	if !b.limiter.allow(chatID) {
		b.send(chatID, b.t(rec, "rate_limited"))
		return
	}

	if strings.HasPrefix(text, "/") {
		switch strings.ToLower(strings.Fields(text)[0]) {
		case "/start":
			b.handleStart(chatID, rec)
		case "/help":
			b.send(chatID, b.t(rec, "help"))
		case "/stats":
			b.showStats(chatID, rec)
		default:
			b.send(chatID, b.t(rec, "unknown"))
		}
		return
	}

	switch b.getState(chatID) {
	case StateAwaitingProductLink:
		b.handleProductLink(ctx, chatID, rec, text)
	case StateAwaitingChannelID:
		b.handleChannelInput(chatID, rec, text)
	default:
		b.showMainMenu(chatID, rec)
	}
}

func (b *Bot) handleStart(chatID int64, rec *storage.UserRecord) {
	// First contact counts the user once; persisting the record stamps
	// last_updated, so later /start commands take the returning path.
	if rec.LastUpdated == "" {
		b.store.UpdateCounter(storage.CounterTotalUsers, 1)
		b.store.SaveUser(chatID, rec)
		b.sendWithKeyboard(chatID, b.t(rec, "welcome"), languageKeyboard())
		return
	}
	b.showMainMenu(chatID, rec)
}

func (b *Bot) handleLanguageSelection(chatID int64, rec *storage.UserRecord, lang string) {
	rec.Language = storage.Language(lang)
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	rec = b.store.GetUser(chatID)
	b.sendWithKeyboard(chatID, b.t(rec, "language_selected"), b.mainMenuKeyboard(rec))
}

func (b *Bot) showMainMenu(chatID int64, rec *storage.UserRecord) {
	b.sendWithKeyboard(chatID, b.t(rec, "main_menu"), b.mainMenuKeyboard(rec))
}

func (b *Bot) showProducts(chatID int64, rec *storage.UserRecord) {
	if len(rec.Products) == 0 {
		b.sendWithKeyboard(chatID, b.t(rec, "no_products"), b.productsKeyboard(rec))
		return
	}
	b.sendWithKeyboard(chatID, b.t(rec, "my_products_count", len(rec.Products)), b.productsKeyboard(rec))
}

func (b *Bot) promptAddProduct(chatID int64, rec *storage.UserRecord) {
	if len(rec.Products) >= b.maxProducts {
		b.send(chatID, b.t(rec, "product_limit", b.maxProducts))
		return
	}
	b.setState(chatID, StateAwaitingProductLink)
	b.send(chatID, b.t(rec, "add_product_prompt", len(rec.Products)+1, b.maxProducts))
}

func (b *Bot) handleProductLink(ctx context.Context, chatID int64, rec *storage.UserRecord, link string) {
	if ok, _ := storage.ValidateURL(link); !ok {
		b.send(chatID, b.t(rec, "invalid_link"))
		return
	}

	info, err := b.scraper.ScrapeProduct(ctx, link)
	if err != nil {
		b.store.UpdateCounter(storage.CounterTotalErrors, 1)
		b.send(chatID, b.t(rec, "scrape_failed", err.Error()))
		return
	}

	product := storage.ProductRecord{
		Name:        info.Title,
		Price:       info.Price,
		URL:         info.URL,
		Brand:       info.Brand,
		Description: info.Description,
		ImageURL:    info.ImageURL,
	}
	if !rec.AddProduct(product, b.maxProducts) {
		b.send(chatID, b.t(rec, "product_limit", b.maxProducts))
		return
	}
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}

	b.setState(chatID, StateIdle)
	b.send(chatID, b.t(rec, "product_saved", product.Name))
	b.showProducts(chatID, b.store.GetUser(chatID))
}

func (b *Bot) showProductDetail(chatID int64, rec *storage.UserRecord, i int) {
	if i < 0 || i >= len(rec.Products) {
		b.send(chatID, b.t(rec, "product_not_found"))
		return
	}
	p := rec.Products[i]
	text := fmt.Sprintf("📦 %s\n💰 %s\n🏷 %s\n🔗 %s", p.Name, p.Price, p.Brand, p.URL)
	b.sendWithKeyboard(chatID, text, b.productDetailKeyboard(rec, i))
}

func (b *Bot) deleteProduct(chatID int64, rec *storage.UserRecord, i int) {
	if i < 0 || i >= len(rec.Products) {
		b.send(chatID, b.t(rec, "product_not_found"))
		return
	}
	name := rec.Products[i].Name
	rec.RemoveProduct(i)
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	b.send(chatID, b.t(rec, "product_deleted", name))
	b.showProducts(chatID, b.store.GetUser(chatID))
}

func (b *Bot) clearProducts(chatID int64, rec *storage.UserRecord) {
	n := rec.ClearProducts()
	if n == 0 {
		b.showProducts(chatID, rec)
		return
	}
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	b.send(chatID, b.t(rec, "products_cleared", n))
}

func (b *Bot) generatePromo(ctx context.Context, chatID int64, rec *storage.UserRecord, i int) {
	if i < 0 || i >= len(rec.Products) {
		b.send(chatID, b.t(rec, "product_not_found"))
		return
	}
	p := rec.Products[i]
	b.send(chatID, b.t(rec, "generating"))

	genCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	text, err := b.generator.Generate(genCtx, p, rec.Language)
	if err != nil {
		b.store.UpdateCounter(storage.CounterTotalErrors, 1)
		b.send(chatID, b.t(rec, "generation_failed"))
		return
	}
	text = text + "\n\n" + promo.Hashtags(p.Name, 6)

	b.mu.Lock()
	b.drafts[chatID] = promoDraft{text: text, productName: p.Name}
	b.mu.Unlock()

	b.store.UpdateCounter(storage.CounterTotalPromosGenerated, 1)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_post_to_channel"), CallbackPostPrefix+strconv.Itoa(i)),
			tgbotapi.NewInlineKeyboardButtonData(b.t(rec, "btn_back_menu"), CallbackMainMenu),
		),
	)
	b.sendWithKeyboard(chatID, text, kb)
}

func (b *Bot) showChannelSettings(chatID int64, rec *storage.UserRecord) {
	channel := b.t(rec, "channel_none")
	autopost := b.t(rec, "autopost_off")
	if rec.ChannelInfo != nil && rec.ChannelInfo.ChannelID != "" {
		channel = rec.ChannelInfo.ChannelID
		if rec.ChannelInfo.AutoPost {
			autopost = b.t(rec, "autopost_on")
		}
	}
	b.sendWithKeyboard(chatID, b.t(rec, "channel_settings", channel, autopost), b.channelKeyboard(rec))
}

func (b *Bot) handleChannelInput(chatID int64, rec *storage.UserRecord, channelID string) {
	channelID = storage.Sanitize(channelID, 100)
	if !strings.HasPrefix(channelID, "@") {
		channelID = "@" + channelID
	}

	if !b.verifyChannelAdmin(channelID) {
		b.send(chatID, b.t(rec, "channel_not_admin", channelID))
		return
	}

	rec.ChannelInfo = &storage.ChannelInfo{
		ChannelID:    channelID,
		AutoPost:     false,
		LastVerified: time.Now().Format(time.RFC3339),
	}
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	b.setState(chatID, StateIdle)
	b.send(chatID, b.t(rec, "channel_saved", channelID))
	b.showChannelSettings(chatID, b.store.GetUser(chatID))
}

// verifyChannelAdmin checks that the bot is an administrator of the channel.
func (b *Bot) verifyChannelAdmin(channelID string) bool {
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channelID,
			UserID:             b.api.Self.ID,
		},
	})
	if err != nil {
		b.log.Warnw("channel verification failed", "channel", channelID, "err", err)
		return false
	}
	return member.IsAdministrator() || member.IsCreator()
}

func (b *Bot) removeChannel(chatID int64, rec *storage.UserRecord) {
	rec.ChannelInfo = nil
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	b.send(chatID, b.t(rec, "channel_removed"))
	b.showChannelSettings(chatID, b.store.GetUser(chatID))
}

func (b *Bot) toggleAutopost(chatID int64, rec *storage.UserRecord) {
	if rec.ChannelInfo == nil || rec.ChannelInfo.ChannelID == "" {
		b.send(chatID, b.t(rec, "channel_prompt"))
		b.setState(chatID, StateAwaitingChannelID)
		return
	}
	rec.ChannelInfo.AutoPost = !rec.ChannelInfo.AutoPost
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	b.showChannelSettings(chatID, b.store.GetUser(chatID))
}

func (b *Bot) showPostHistory(chatID int64, rec *storage.UserRecord) {
	if len(rec.PostHistory) == 0 {
		b.send(chatID, b.t(rec, "no_history"))
		return
	}
	shown := rec.PostHistory
	if len(shown) > historyShown {
		shown = shown[len(shown)-historyShown:]
	}
	var sb strings.Builder
	sb.WriteString(b.t(rec, "post_history", historyShown))
	sb.WriteString("\n\n")
	for i := len(shown) - 1; i >= 0; i-- {
		p := shown[i]
		fmt.Fprintf(&sb, "• %s — %s (%s)\n", p.Product, p.Status, p.Timestamp)
	}
	b.send(chatID, sb.String())
}

func (b *Bot) postToChannel(chatID int64, rec *storage.UserRecord) {
	b.mu.RLock()
	draft, ok := b.drafts[chatID]
	b.mu.RUnlock()
	if !ok {
		b.send(chatID, b.t(rec, "generation_failed"))
		return
	}

	if rec.ChannelInfo == nil || rec.ChannelInfo.ChannelID == "" {
		b.setState(chatID, StateAwaitingChannelID)
		b.send(chatID, b.t(rec, "channel_prompt"))
		return
	}
	channelID := rec.ChannelInfo.ChannelID

	_, err := b.api.Send(tgbotapi.NewMessageToChannel(channelID, draft.text))
	if err != nil {
		b.log.Warnw("channel post failed", "chat_id", chatID, "channel", channelID, "err", err)
		rec.AppendPost(storage.NewPostRecord(draft.productName, "failed: "+err.Error()), storage.DefaultHistoryCap)
		b.store.SaveUser(chatID, rec)
		b.store.UpdateCounter(storage.CounterTotalErrors, 1)
		b.send(chatID, b.t(rec, "post_failed", err.Error()))
		return
	}

	rec.AppendPost(storage.NewPostRecord(draft.productName, "success"), storage.DefaultHistoryCap)
	if !b.store.SaveUser(chatID, rec) {
		b.send(chatID, b.t(rec, "save_failed"))
		return
	}
	b.store.UpdateCounter(storage.CounterTotalPostsToChannels, 1)

	b.mu.Lock()
	delete(b.drafts, chatID)
	b.mu.Unlock()

	b.send(chatID, b.t(rec, "posted", channelID))
}

func (b *Bot) showStats(chatID int64, rec *storage.UserRecord) {
	c := b.store.Counters()
	b.send(chatID, b.t(rec, "stats",
		c.TotalUsers, c.TotalMessages, c.TotalPromosGenerated, c.TotalPostsToChannels, c.TotalErrors))
}

// parseIndex extracts the numeric suffix of an indexed callback, returning -1
// for garbage so handlers fall through to their not-found paths.
func parseIndex(data, prefix string) int {
	i, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return -1
	}
	return i
}
