package telegram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/retry"
)

// The bot speaks Russian to users; translation targets are whatever
// language they pick.

const MsgWelcome = "Привет, %s!\n\n" +
	"Я бот-переводчик на основе Groq AI. Я могу переводить текстовые сообщения " +
	"и расшифровывать голосовые сообщения на любой выбранный вами язык.\n\n" +
	"Доступные команды:\n" +
	"/start - Показать это приветственное сообщение\n" +
	"/setlang <язык> - Установить предпочитаемый язык перевода\n" +
	"/mylang - Показать текущий выбранный язык\n" +
	"/trivia - Сыграть в увлекательную игру Правда/Ложь\n" +
	"/help - Показать подробную справку по всем командам\n\n" +
	"Чтобы начать:\n" +
	"1. Введите /setlang, чтобы выбрать язык с помощью кнопок 🔘\n" +
	"2. Отправьте мне текстовое или голосовое сообщение, и я переведу его!\n" +
	"3. Хотите развлечься? Попробуйте /trivia для игры!\n\n" +
	"Совет: Вы также можете ввести /setlang spanish, чтобы установить язык напрямую."

const MsgHelp = "Бот-переводчик - Команды и использование\n\n" +
	"/start\n" +
	"Показать приветственное сообщение и основную информацию.\n\n" +
	"/setlang [язык]\n" +
	"Установить предпочитаемый язык перевода.\n" +
	"• Просто введите /setlang, чтобы увидеть кнопки выбора языка 🔘\n" +
	"• Или используйте: /setlang spanish\n" +
	"• Используйте /setlang help, чтобы увидеть все поддерживаемые языки.\n\n" +
	"/mylang\n" +
	"Показать ваш текущий выбранный язык.\n" +
	"Показывает 'не установлен', если вы еще не выбрали язык.\n\n" +
	"/trivia\n" +
	"Сыграть в увлекательную игру-викторину!\n" +
	"• Выберите категорию из 24+ вариантов (История, Наука, Спорт и др.)\n" +
	"• Ответьте на 10 вопросов на выбранном вами языке\n" +
	"• Вопросы бывают Правда/Ложь или множественный выбор\n" +
	"• Используйте кнопки для выбора ответа\n" +
	"• Получайте мгновенную обратную связь\n" +
	"• Посмотрите свой финальный счет в конце\n" +
	"• Играйте сколько угодно раз с новыми вопросами\n\n" +
	"/help\n" +
	"Показать это подробное справочное сообщение.\n\n" +
	"Как работает перевод:\n" +
	"1. Установите предпочитаемый язык с помощью /setlang\n" +
	"2. Отправьте любое текстовое или голосовое сообщение\n" +
	"3. Я переведу его на ваш язык с помощью Groq AI\n\n" +
	"Для голосовых сообщений:\n" +
	"- Отправьте голосовое сообщение на любом языке\n" +
	"- Бот расшифрует его с помощью Whisper large-v3\n" +
	"- Затем переведет на ваш предпочитаемый язык\n" +
	"- Если язык не установлен, вы увидите только расшифровку\n\n" +
	"Бот показывает как ваш оригинальный текст/расшифровку, так и перевод, " +
	"чтобы вы могли их сравнить.\n\n" +
	"Работает на Groq AI и Open Trivia Database:\n" +
	"- Перевод: модель Llama 3.3 70B\n" +
	"- Расшифровка: модель Whisper large-v3\n" +
	"- Вопросы викторины: Open Trivia Database (opentdb.com)\n" +
	"- Перевод викторины: модель Llama 3.3 70B"

const MsgChooseLanguage = "🌍 *Выберите предпочитаемый язык:*\n\n" +
	"Выберите из кнопок ниже, или используйте:\n" +
	"`/setlang <язык>`\n\n" +
	"Пример: `/setlang spanish`"

const MsgNoLanguageYet = "Вы еще не установили предпочитаемый язык.\n\n" +
	"🌍 *Выберите ваш язык:*"

const MsgSetLanguageFirst = "Пожалуйста, сначала установите предпочитаемый язык перевода!\n\n" +
	"Используйте /setlang <язык> для установки.\n" +
	"Пример: /setlang spanish\n\n" +
	"Используйте /setlang help для просмотра всех поддерживаемых языков."

const MsgVoiceTooShort = "Голосовое сообщение слишком короткое. Пожалуйста, отправьте более длинное сообщение."

const MsgRateLimited = "Слишком много запросов. Пожалуйста, подождите минуту и попробуйте снова."

const MsgGameExpired = "❌ Эта игра истекла или уже была завершена.\n\n" +
	"Используйте /trivia, чтобы начать новую игру!"

const MsgAlreadyAnswered = "❌ На этот вопрос уже был дан ответ.\n\n" +
	"Пожалуйста, подождите следующий вопрос..."

const MsgActiveGameReplaced = "У вас уже есть активная игра в викторину!\n\n" +
	"Сначала завершите текущую игру, или используйте /trivia снова, чтобы начать новую игру " +
	"(это отменит текущую игру)."

// CategoryNames maps OpenTDB category ids to their Russian labels. Id 0 is
// the "no category filter" option.
var CategoryNames = map[int]string{
	0:  "Все категории",
	9:  "Общие знания",
	10: "Развлечения: Книги",
	11: "Развлечения: Кино",
	12: "Развлечения: Музыка",
	13: "Развлечения: Мюзиклы и театры",
	14: "Развлечения: Телевидение",
	15: "Развлечения: Видеоигры",
	16: "Развлечения: Настольные игры",
	17: "Наука и природа",
	18: "Наука: Компьютеры",
	19: "Наука: Математика",
	20: "Мифология",
	21: "Спорт",
	22: "География",
	23: "История",
	24: "Политика",
	25: "Искусство",
	26: "Знаменитости",
	27: "Животные",
	28: "Транспорт",
	29: "Развлечения: Комиксы",
	30: "Наука: Гаджеты",
	31: "Развлечения: Японское аниме и манга",
	32: "Развлечения: Мультфильмы и анимация",
}

// sortedCategoryIDs returns the category ids in ascending order for stable
// keyboard layout.
func sortedCategoryIDs() []int {
	ids := make([]int, 0, len(CategoryNames))
	for id := range CategoryNames {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// tierMessages index matches game.Tier values.
var tierMessages = []string{
	"Идеальный результат! Вы мастер викторины!",
	"Отличная работа! Вы действительно знаете факты!",
	"Хорошая работа! Вы справились!",
	"Неплохо! Продолжайте учиться!",
	"Хорошая попытка! Сыграйте снова, чтобы улучшить свой результат!",
}

// flagEmojis keys are lowercase language names from the lang package.
var flagEmojis = map[string]string{
	"english": "🇬🇧", "spanish": "🇪🇸", "french": "🇫🇷",
	"german": "🇩🇪", "italian": "🇮🇹", "portuguese": "🇵🇹",
	"russian": "🇷🇺", "chinese": "🇨🇳", "japanese": "🇯🇵",
	"korean": "🇰🇷", "arabic": "🇸🇦", "hindi": "🇮🇳",
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func languageSetMessage(code string) string {
	return fmt.Sprintf(
		"✅ *Язык установлен на %s (%s)*\n\n"+
			"Теперь отправьте мне любое текстовое сообщение, и я переведу его!\n\n"+
			"Используйте /setlang для изменения языка в любое время.",
		capitalize(lang.NameForCodeLookup(code)), code)
}

// translationErrorReason maps a failed translation or transcription to the
// advice shown under the error banner.
func translationErrorReason(err error) string {
	switch retry.Classify(err) {
	case retry.ClassRateLimited:
		return "Translation service is busy. Please wait a moment and try again."
	case retry.ClassTransient:
		return "Translation took too long. Please try again with shorter text."
	case retry.ClassClient:
		return "Translation service rejected the request. Please contact the administrator."
	default:
		return "Translation failed. Please try again later."
	}
}
