package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"

	"truckboard/auth"
	"truckboard/config"
	"truckboard/pkg/format"
	"truckboard/pkg/logger"
	"truckboard/service"
	"truckboard/storage"
)

const (
	StateAwaitingEmail    = "awaiting_email"
	StateAwaitingPassword = "awaiting_password"
	StateActive           = "active"

	maxOrdersPerMessage = 10
)

var messages = map[string]string{
	"welcome":       "👋 Welcome to the Trucking Dashboard.",
	"ask_email":     "📧 Enter your email to sign in:",
	"ask_password":  "🔑 Enter your password:",
	"bad_login":     "🚫 Invalid credentials, try again.\n\n📧 Enter your email:",
	"signed_in":     "✅ Signed in as %s. Loading orders...",
	"signed_out":    "👋 Logged out. Send /start to sign in again.",
	"session_ended": "⚠️ Your session ended. Sign in again.\n\n📧 Enter your email:",
	"loading":       "⏳ Loading orders...",
	"fetch_error":   "⚠️ Could not load orders: %s",
	"no_orders":     "📭 No orders found.",
	"searching":     "🔎 Showing orders matching %q (send /clear to reset):",
	"all_orders":    "📋 All orders:",
}

// viewer holds one chat's dashboard instance. Each chat gets its own auth
// provider and dashboard so session subscriptions never cross viewers.
type viewer struct {
	provider    *auth.Memory
	dash        *service.Dashboard
	cancel      context.CancelFunc
	recipient   tele.Recipient
	state       string
	email       string
	wasFetching bool
}

type Bot struct {
	Bot *tele.Bot
	Log logger.ILogger
	Cfg *config.Config
	Stg storage.IStorage

	mu      sync.Mutex
	viewers map[int64]*viewer
}

func New(cfg *config.Config, stg storage.IStorage, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:     b,
		Log:     log,
		Cfg:     cfg,
		Stg:     stg,
		viewers: make(map[int64]*viewer),
	}
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info("🚚 Dashboard bot started...")
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.mu.Lock()
	for _, v := range b.viewers {
		v.dash.Stop()
		v.cancel()
	}
	b.viewers = make(map[int64]*viewer)
	b.mu.Unlock()
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/logout", b.handleLogout)
	b.Bot.Handle("/refresh", b.handleRefresh)
	b.Bot.Handle("/clear", b.handleClear)
	b.Bot.Handle(tele.OnText, b.handleText)
}

// viewerFor returns the chat's viewer, creating and starting a dashboard for
// it on first contact.
func (b *Bot) viewerFor(c tele.Context) *viewer {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v, ok := b.viewers[c.Sender().ID]; ok {
		return v
	}

	provider := auth.NewMemory(b.Log)
	if b.Cfg.DashboardPassword != "" {
		if err := provider.AddUser(b.Cfg.DashboardEmail, b.Cfg.DashboardPassword); err != nil {
			b.Log.Error("failed to seed dashboard user", logger.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	v := &viewer{
		provider:  provider,
		cancel:    cancel,
		recipient: c.Sender(),
		state:     StateAwaitingEmail,
	}
	v.dash = service.NewDashboard(provider, b.Stg.Order(), b.Log)
	v.dash.OnRedirect(func(target string) { b.handleRedirect(v, target) })
	v.dash.OnUpdate(func() { b.handleUpdate(v) })
	v.dash.Start(ctx)

	b.viewers[c.Sender().ID] = v
	return v
}

// handleRedirect is the navigation hook: login means the session is gone and
// credentials are needed again, landing means a deliberate logout.
func (b *Bot) handleRedirect(v *viewer, target string) {
	b.mu.Lock()
	active := v.state == StateActive
	if active {
		v.state = StateAwaitingEmail
	}
	b.mu.Unlock()

	if !active {
		return
	}
	if target == service.RouteLanding {
		b.send(v, messages["signed_out"])
	} else {
		b.send(v, messages["session_ended"])
	}
}

// handleUpdate pushes the order table once an outstanding fetch settles, so
// the viewer who just signed in sees data without asking again.
func (b *Bot) handleUpdate(v *viewer) {
	vm := v.dash.View()

	b.mu.Lock()
	settled := v.wasFetching && !vm.IsFetchingOrders && v.state == StateActive
	v.wasFetching = vm.IsFetchingOrders
	b.mu.Unlock()

	if settled {
		b.send(v, renderOrders(vm))
	}
}

func (b *Bot) handleStart(c tele.Context) error {
	v := b.viewerFor(c)
	vm := v.dash.View()

	if vm.IsAuthenticated {
		b.mu.Lock()
		v.state = StateActive
		b.mu.Unlock()
		return c.Send(renderOrders(vm))
	}

	b.mu.Lock()
	v.state = StateAwaitingEmail
	b.mu.Unlock()
	return c.Send(messages["welcome"] + "\n\n" + messages["ask_email"])
}

func (b *Bot) handleLogout(c tele.Context) error {
	v := b.viewerFor(c)
	if !v.dash.View().IsAuthenticated {
		return c.Send(messages["ask_email"])
	}

	// leave the active state first so the sign-out redirect is not
	// reported as an expired session
	b.mu.Lock()
	v.state = StateAwaitingEmail
	b.mu.Unlock()

	if err := v.dash.Logout(context.Background()); err != nil {
		return c.Send(fmt.Sprintf("⚠️ Logout failed: %s", err))
	}
	return c.Send(messages["signed_out"])
}

func (b *Bot) handleRefresh(c tele.Context) error {
	v := b.viewerFor(c)
	vm := v.dash.View()
	if !vm.IsAuthenticated {
		return c.Send(messages["ask_email"])
	}

	b.mu.Lock()
	v.wasFetching = true
	b.mu.Unlock()
	v.dash.Refresh()
	return c.Send(messages["loading"])
}

func (b *Bot) handleClear(c tele.Context) error {
	v := b.viewerFor(c)
	vm := v.dash.View()
	if !vm.IsAuthenticated {
		return c.Send(messages["ask_email"])
	}
	v.dash.SetQuery("")
	return c.Send(renderOrders(v.dash.View()))
}

func (b *Bot) handleText(c tele.Context) error {
	v := b.viewerFor(c)

	b.mu.Lock()
	state := v.state
	b.mu.Unlock()

	switch state {
	case StateAwaitingEmail:
		b.mu.Lock()
		v.email = strings.TrimSpace(c.Text())
		v.state = StateAwaitingPassword
		b.mu.Unlock()
		return c.Send(messages["ask_password"])

	case StateAwaitingPassword:
		b.mu.Lock()
		email := v.email
		b.mu.Unlock()

		_, err := v.provider.SignIn(context.Background(), email, c.Text())
		if err != nil {
			b.Log.Warning("sign-in rejected", logger.String("email", email))
			b.mu.Lock()
			v.state = StateAwaitingEmail
			b.mu.Unlock()
			return c.Send(messages["bad_login"])
		}

		b.mu.Lock()
		v.state = StateActive
		v.wasFetching = true
		b.mu.Unlock()
		return c.Send(fmt.Sprintf(messages["signed_in"], email))

	default:
		// any plain text while active is the live search query
		v.dash.SetQuery(strings.TrimSpace(c.Text()))
		return c.Send(renderOrders(v.dash.View()))
	}
}

func (b *Bot) send(v *viewer, text string) {
	if _, err := b.Bot.Send(v.recipient, text); err != nil {
		b.Log.Error("failed to send message", logger.Error(err))
	}
}

// renderOrders turns the view model into one message: an optional error
// banner, then the visible orders with formatted phone and pickup/dropoff.
func renderOrders(vm service.ViewModel) string {
	var sb strings.Builder

	if vm.FetchError != "" {
		sb.WriteString(fmt.Sprintf(messages["fetch_error"], vm.FetchError))
		sb.WriteString("\n\n")
	}
	if vm.IsFetchingOrders {
		sb.WriteString(messages["loading"])
		return sb.String()
	}

	if vm.Query != "" {
		sb.WriteString(fmt.Sprintf(messages["searching"], vm.Query))
	} else {
		sb.WriteString(messages["all_orders"])
	}
	sb.WriteString("\n")

	if len(vm.VisibleOrders) == 0 {
		sb.WriteString(messages["no_orders"])
		return sb.String()
	}

	shown := vm.VisibleOrders
	if len(shown) > maxOrdersPerMessage {
		shown = shown[:maxOrdersPerMessage]
	}
	for _, o := range shown {
		sb.WriteString(fmt.Sprintf("\n🚛 #%d %s %s", o.ID, str(o.FirstName), str(o.LastName)))
		if phone := format.PhoneNumber(str(o.PhoneNumber)); phone != "" {
			sb.WriteString("  📞 " + phone)
		}
		if o.Tonnage != nil {
			sb.WriteString(fmt.Sprintf("  ⚖️ %vt", *o.Tonnage))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  📍 %s %s\n", address(o.PickupStreetAddress, o.PickupCity, o.PickupState, o.PickupZipCode),
			format.DateTime(str(o.PickupDate), str(o.PickupTime))))
		sb.WriteString(fmt.Sprintf("  🏁 %s %s\n", address(o.DropoffStreetAddress, o.DropoffCity, o.DropoffState, o.DropoffZipCode),
			format.DateTime(str(o.DropoffDate), str(o.DropoffTime))))
	}
	if extra := len(vm.VisibleOrders) - len(shown); extra > 0 {
		sb.WriteString(fmt.Sprintf("\n…and %d more. Narrow the search to see them.", extra))
	}
	return sb.String()
}

func address(street, city, state, zip *string) string {
	parts := []string{}
	for _, p := range []*string{street, city, state} {
		if s := str(p); s != "" {
			parts = append(parts, s)
		}
	}
	out := strings.Join(parts, ", ")
	if z := str(zip); z != "" {
		out += " " + z
	}
	return strings.TrimSpace(out)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
