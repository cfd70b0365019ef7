package handler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"wordreview/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const requestTimeout = 10 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot           *tele.Bot
	reviewService *service.ReviewService
	wordService   *service.WordService
	statsService  *service.StatsService
	ledger        *service.Ledger
	batchSize     int
	logger        *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*StateData
	stateMux sync.RWMutex

	// Serializes answer callbacks per user
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	reviewService *service.ReviewService,
	wordService *service.WordService,
	statsService *service.StatsService,
	ledger *service.Ledger,
	batchSize int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		reviewService: reviewService,
		wordService:   wordService,
		statsService:  statsService,
		ledger:        ledger,
		batchSize:     batchSize,
		logger:        logger,
		states:        make(map[int64]*StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/review", h.handleReview)
	h.bot.Handle("/wrong", h.handleWrongWords)
	h.bot.Handle("/stop", h.handleStop)
	h.bot.Handle("/checkin", h.handleCheckIn)
	h.bot.Handle("/progress", h.handleProgress)
	h.bot.Handle("/hard", h.handleDifficult)
	h.bot.Handle("/word", h.handleLookup)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnReview, h.handleReview)
	h.bot.Handle(&btnWrongWords, h.handleWrongWords)
	h.bot.Handle(&btnCheckIn, h.handleCheckIn)
	h.bot.Handle(&btnProgress, h.handleProgress)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnKnow, h.handleAnswer)
	h.bot.Handle(&btnForgot, h.handleAnswer)
	h.bot.Handle(&btnShuffle, h.handleShuffle)
	h.bot.Handle(&btnStop, h.handleStop)
	h.bot.Handle(&btnSave, h.handleSave)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &StateData{State: StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &StateData{State: StateIdle})
}

// userLock returns the lock serializing callbacks of one user
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

// Username returns the key the review engine stores a Telegram user under
func Username(user *tele.User) string {
	return strconv.FormatInt(user.ID, 10)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnReview = tele.Btn{
		Unique: "review",
		Text:   "🧠 Повторить слова",
	}
	btnWrongWords = tele.Btn{
		Unique: "wrong_words",
		Text:   "🔁 Работа над ошибками",
	}
	btnCheckIn = tele.Btn{
		Unique: "checkin",
		Text:   "📆 Отметиться",
	}
	btnProgress = tele.Btn{
		Unique: "progress",
		Text:   "📊 Прогресс",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Добавить слово",
	}
	btnKnow = tele.Btn{
		Unique: "know",
		Text:   "✅ Помню",
	}
	btnForgot = tele.Btn{
		Unique: "forgot",
		Text:   "❌ Не помню",
	}
	btnShuffle = tele.Btn{
		Unique: "shuffle",
		Text:   "🔀 Перемешать",
	}
	btnStop = tele.Btn{
		Unique: "stop",
		Text:   "⏹ Закончить",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Отменить",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Главное меню",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnReview),
		menu.Row(btnWrongWords),
		menu.Row(btnAddWord),
		menu.Row(btnCheckIn, btnProgress),
	)
	return menu
}

// answerMarkup returns the know/forgot keyboard for the card at position
func answerMarkup(position int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	data := strconv.Itoa(position)
	markup.Inline(
		markup.Row(
			markup.Data(btnKnow.Text, btnKnow.Unique, data),
			markup.Data(btnForgot.Text, btnForgot.Unique, data),
		),
		markup.Row(btnShuffle, btnStop),
	)
	return markup
}
