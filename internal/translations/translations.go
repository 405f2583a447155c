// Package translations holds the bot's static interface strings for the
// supported languages. Lookups fall back to English and finally to the key
// itself, so a missing translation shows up as an ugly label instead of a
// crash or an empty message.
package translations

import "fmt"

// T returns the string under key for lang, formatted with args when the
// template carries verbs.
func T(lang, key string, args ...any) string {
	table, ok := tables[lang]
	if !ok {
		table = tables["en"]
	}
	s, ok := table[key]
	if !ok {
		if s, ok = tables["en"][key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

var tables = map[string]map[string]string{
	"en": {
		"welcome":              "🚀 Welcome to the Promo Text Generator Bot! 🚀\n\nI can help you create amazing promotional posts for your products!\n\nChoose your language first:",
		"language_selected":    "✅ Language set to English!\n\nChoose an option below to get started:",
		"main_menu":            "🚀 Promo Text Generator Bot - Main Menu\n\nChoose an option below to get started:",
		"btn_generate_promo":   "✨ Generate Promo",
		"btn_my_products":      "📦 My Products",
		"btn_channel_settings": "📢 Channel Settings",
		"btn_help":             "❓ Help",
		"btn_language":         "🌐 Language",
		"btn_back_menu":        "🔙 Back to Menu",
		"btn_add_product":      "➕ Add Product",
		"btn_clear_all":        "🗑️ Clear All",
		"btn_delete":           "🗑️ Delete",
		"btn_post_history":     "📜 Post History",
		"btn_set_channel":      "📝 Set Channel",
		"btn_remove_channel":   "❌ Remove Channel",
		"btn_toggle_autopost":  "🔄 Toggle Auto-Post",
		"btn_post_to_channel":  "📤 Post to Channel",
		"btn_cancel":           "❌ Cancel",
		"my_products_count":    "📦 My Products\n\nYou have %d product(s) saved:",
		"no_products":          "You haven't added any products yet.\n\nClick \"Add Product\" to get started!",
		"product_limit":        "⚠️ Product Limit Reached\n\nYou can store up to %d products. Please delete some products first.",
		"add_product_prompt":   "➕ Add Product (%d/%d)\n\nPlease send me a product link from any online store.\n\nI'll automatically extract the product information for you!",
		"product_saved":        "✅ Product \"%s\" saved!",
		"product_deleted":      "✅ Product \"%s\" has been deleted.",
		"products_cleared":     "✅ All %d products have been cleared.",
		"product_not_found":    "❌ Product not found.",
		"scrape_failed":        "❌ Could not read that product page: %s",
		"invalid_link":         "❌ That link is invalid or unsafe. Please send a normal http(s) product link.",
		"generating":           "✨ Generating promo text, give me a moment...",
		"generation_failed":    "❌ Could not generate promo text right now. Please try again.",
		"save_failed":          "⚠️ Could not save your data. Please try again.",
		"channel_settings":     "📢 Channel Settings\n\nChannel: %s\nAuto-post: %s",
		"channel_none":         "not set",
		"channel_prompt":       "📝 Send me your channel ID (e.g. @mychannel).\n\nThe bot must be an administrator of the channel.",
		"channel_saved":        "✅ Channel %s saved and verified!",
		"channel_removed":      "✅ Channel removed.",
		"channel_not_admin":    "❌ I am not an administrator of %s. Add me as admin and try again.",
		"autopost_on":          "on",
		"autopost_off":         "off",
		"post_history":         "📜 Post History (last %d)",
		"no_history":           "No posts yet.",
		"posted":               "✅ Posted to %s!",
		"post_failed":          "❌ Posting failed: %s",
		"rate_limited":         "⏳ Too many requests, please slow down.",
		"stats":                "📊 Stats\n\nUsers: %d\nMessages: %d\nPromos: %d\nChannel posts: %d\nErrors: %d",
		"help": "❓ Help\n\n" +
			"• Add a product by sending me a link from any online store\n" +
			"• Generate promo texts for your saved products\n" +
			"• Connect a channel to post promos directly\n\n" +
			"Commands: /start, /help, /stats",
		"unknown": "❓ Unknown command. Use /start to open the menu.",
	},
	"ru": {
		"welcome":              "🚀 Добро пожаловать в бот генерации промо-текстов! 🚀\n\nЯ помогу создать отличные рекламные посты для ваших товаров!\n\nСначала выберите язык:",
		"language_selected":    "✅ Язык установлен: русский!\n\nВыберите действие ниже:",
		"main_menu":            "🚀 Бот генерации промо-текстов - Главное меню\n\nВыберите действие ниже:",
		"btn_generate_promo":   "✨ Создать промо",
		"btn_my_products":      "📦 Мои товары",
		"btn_channel_settings": "📢 Настройки канала",
		"btn_help":             "❓ Помощь",
		"btn_language":         "🌐 Язык",
		"btn_back_menu":        "🔙 В меню",
		"btn_add_product":      "➕ Добавить товар",
		"btn_clear_all":        "🗑️ Удалить все",
		"btn_delete":           "🗑️ Удалить",
		"btn_post_history":     "📜 История постов",
		"btn_set_channel":      "📝 Указать канал",
		"btn_remove_channel":   "❌ Удалить канал",
		"btn_toggle_autopost":  "🔄 Авто-постинг",
		"btn_post_to_channel":  "📤 Опубликовать в канал",
		"btn_cancel":           "❌ Отмена",
		"my_products_count":    "📦 Мои товары\n\nСохранено товаров: %d",
		"no_products":          "Вы еще не добавили ни одного товара.\n\nНажмите «Добавить товар», чтобы начать!",
		"product_limit":        "⚠️ Достигнут лимит товаров\n\nМожно хранить не более %d товаров. Сначала удалите лишние.",
		"add_product_prompt":   "➕ Добавить товар (%d/%d)\n\nОтправьте мне ссылку на товар из любого интернет-магазина.\n\nЯ автоматически извлеку информацию о товаре!",
		"product_saved":        "✅ Товар «%s» сохранен!",
		"product_deleted":      "✅ Товар «%s» удален.",
		"products_cleared":     "✅ Удалено товаров: %d.",
		"product_not_found":    "❌ Товар не найден.",
		"scrape_failed":        "❌ Не удалось прочитать страницу товара: %s",
		"invalid_link":         "❌ Ссылка некорректна или небезопасна. Отправьте обычную http(s)-ссылку на товар.",
		"generating":           "✨ Генерирую промо-текст, секунду...",
		"generation_failed":    "❌ Сейчас не удалось сгенерировать текст. Попробуйте еще раз.",
		"save_failed":          "⚠️ Не удалось сохранить данные. Попробуйте еще раз.",
		"channel_settings":     "📢 Настройки канала\n\nКанал: %s\nАвто-постинг: %s",
		"channel_none":         "не указан",
		"channel_prompt":       "📝 Отправьте ID вашего канала (например, @mychannel).\n\nБот должен быть администратором канала.",
		"channel_saved":        "✅ Канал %s сохранен и проверен!",
		"channel_removed":      "✅ Канал удален.",
		"channel_not_admin":    "❌ Я не администратор канала %s. Добавьте меня в администраторы и повторите.",
		"autopost_on":          "вкл",
		"autopost_off":         "выкл",
		"post_history":         "📜 История постов (последние %d)",
		"no_history":           "Постов пока нет.",
		"posted":               "✅ Опубликовано в %s!",
		"post_failed":          "❌ Публикация не удалась: %s",
		"rate_limited":         "⏳ Слишком много запросов, помедленнее.",
		"stats":                "📊 Статистика\n\nПользователи: %d\nСообщения: %d\nПромо: %d\nПосты в каналы: %d\nОшибки: %d",
		"help": "❓ Помощь\n\n" +
			"• Добавьте товар, отправив ссылку из интернет-магазина\n" +
			"• Генерируйте промо-тексты для сохраненных товаров\n" +
			"• Подключите канал для публикации промо\n\n" +
			"Команды: /start, /help, /stats",
		"unknown": "❓ Неизвестная команда. Используйте /start для открытия меню.",
	},
	"ro": {
		"welcome":              "🚀 Bine ai venit la botul de texte promoționale! 🚀\n\nTe ajut să creezi postări promoționale grozave pentru produsele tale!\n\nAlege mai întâi limba:",
		"language_selected":    "✅ Limba setată: română!\n\nAlege o opțiune de mai jos:",
		"main_menu":            "🚀 Bot de texte promoționale - Meniu principal\n\nAlege o opțiune de mai jos:",
		"btn_generate_promo":   "✨ Generează promo",
		"btn_my_products":      "📦 Produsele mele",
		"btn_channel_settings": "📢 Setări canal",
		"btn_help":             "❓ Ajutor",
		"btn_language":         "🌐 Limba",
		"btn_back_menu":        "🔙 Înapoi la meniu",
		"btn_add_product":      "➕ Adaugă produs",
		"btn_clear_all":        "🗑️ Șterge tot",
		"btn_delete":           "🗑️ Șterge",
		"btn_post_history":     "📜 Istoric postări",
		"btn_set_channel":      "📝 Setează canal",
		"btn_remove_channel":   "❌ Elimină canal",
		"btn_toggle_autopost":  "🔄 Auto-postare",
		"btn_post_to_channel":  "📤 Postează în canal",
		"btn_cancel":           "❌ Anulează",
		"my_products_count":    "📦 Produsele mele\n\nAi %d produs(e) salvate:",
		"no_products":          "Nu ai adăugat încă niciun produs.\n\nApasă «Adaugă produs» pentru a începe!",
		"product_limit":        "⚠️ Limita de produse atinsă\n\nPoți stoca cel mult %d produse. Șterge câteva mai întâi.",
		"add_product_prompt":   "➕ Adaugă produs (%d/%d)\n\nTrimite-mi un link de produs din orice magazin online.\n\nVoi extrage automat informațiile despre produs!",
		"product_saved":        "✅ Produsul „%s” a fost salvat!",
		"product_deleted":      "✅ Produsul „%s” a fost șters.",
		"products_cleared":     "✅ Toate cele %d produse au fost șterse.",
		"product_not_found":    "❌ Produsul nu a fost găsit.",
		"scrape_failed":        "❌ Nu am putut citi pagina produsului: %s",
		"invalid_link":         "❌ Linkul este invalid sau nesigur. Trimite un link http(s) normal.",
		"generating":           "✨ Generez textul promoțional, o clipă...",
		"generation_failed":    "❌ Nu am putut genera textul acum. Încearcă din nou.",
		"save_failed":          "⚠️ Nu am putut salva datele. Încearcă din nou.",
		"channel_settings":     "📢 Setări canal\n\nCanal: %s\nAuto-postare: %s",
		"channel_none":         "nesetat",
		"channel_prompt":       "📝 Trimite-mi ID-ul canalului tău (ex. @canalulmeu).\n\nBotul trebuie să fie administrator al canalului.",
		"channel_saved":        "✅ Canalul %s a fost salvat și verificat!",
		"channel_removed":      "✅ Canalul a fost eliminat.",
		"channel_not_admin":    "❌ Nu sunt administrator al %s. Adaugă-mă ca administrator și încearcă din nou.",
		"autopost_on":          "pornit",
		"autopost_off":         "oprit",
		"post_history":         "📜 Istoric postări (ultimele %d)",
		"no_history":           "Nicio postare încă.",
		"posted":               "✅ Postat în %s!",
		"post_failed":          "❌ Postarea a eșuat: %s",
		"rate_limited":         "⏳ Prea multe cereri, mai încet.",
		"stats":                "📊 Statistici\n\nUtilizatori: %d\nMesaje: %d\nPromo: %d\nPostări în canale: %d\nErori: %d",
		"help": "❓ Ajutor\n\n" +
			"• Adaugă un produs trimițându-mi un link dintr-un magazin online\n" +
			"• Generează texte promoționale pentru produsele salvate\n" +
			"• Conectează un canal pentru a posta direct\n\n" +
			"Comenzi: /start, /help, /stats",
		"unknown": "❓ Comandă necunoscută. Folosește /start pentru meniu.",
	},
}
