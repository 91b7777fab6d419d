// Package viewstate описывает состояние экрана планировщика как сериализуемую
// структуру. Все переходы чистые: метод возвращает новое состояние и не
// изменяет исходное.
package viewstate

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/client"
	"example.com/ai-travel-planner/internal/models"
)

const (
	DefaultSidebarWidth = 350
	MinSidebarWidth     = 250
	MaxSidebarWidth     = 800
)

const (
	MsgMissingFields  = "Please fill all fields!"
	MsgGenerating     = "Analyzing costs & optimizing route..."
	MsgGenerated      = "Trip generated!"
	MsgGenerateFailed = "Failed to plan trip."
	MsgSaving         = "Saving entire plan..."
	MsgSaved          = "Trip Saved Successfully!"
	MsgSaveFailed     = "Error saving trip."
	MsgDeleted        = "Trip deleted."
	MsgDeleteFailed   = "Could not delete."
)

var (
	ErrMissingFields = errors.New("from, to and days are required")
	ErrInvalidDays   = errors.New("days must be a positive integer")
	ErrNothingToSave = errors.New("no trip is displayed")
)

type ToastKind string

const (
	ToastLoading ToastKind = "loading"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

type Form struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days string `json:"days"`
}

type Sidebar struct {
	Open           bool `json:"open"`
	Width          int  `json:"width"`
	Resizing       bool `json:"resizing"`
	DragStartX     int  `json:"dragStartX"`
	DragStartWidth int  `json:"dragStartWidth"`
}

type State struct {
	Form            Form          `json:"form"`
	Trip            *models.Trip  `json:"trip,omitempty"`
	SavedTrips      []models.Trip `json:"savedTrips"`
	Loading         bool          `json:"loading"`
	BudgetModalOpen bool          `json:"budgetModalOpen"`
	Sidebar         Sidebar       `json:"sidebar"`
	Toast           *Toast        `json:"toast,omitempty"`
}

// New возвращает начальное состояние: боковая панель открыта, ширина 350.
func New() State {
	return State{
		SavedTrips: []models.Trip{},
		Sidebar:    Sidebar{Open: true, Width: DefaultSidebarWidth},
	}
}

// SetField меняет поле формы from, to или days. Неизвестное имя игнорируется.
func (s State) SetField(name, value string) State {
	switch name {
	case "from":
		s.Form.From = value
	case "to":
		s.Form.To = value
	case "days":
		s.Form.Days = value
	}
	return s
}

// Validate проверяет заполненность формы до обращения к серверу.
func (s State) Validate() error {
	if strings.TrimSpace(s.Form.From) == "" || strings.TrimSpace(s.Form.To) == "" || strings.TrimSpace(s.Form.Days) == "" {
		return ErrMissingFields
	}
	return nil
}

// GenerateRequest собирает запрос генерации из формы.
func (s State) GenerateRequest() (client.GenerateRequest, error) {
	if err := s.Validate(); err != nil {
		return client.GenerateRequest{}, err
	}

	days, err := parseDays(s.Form.Days)
	if err != nil {
		return client.GenerateRequest{}, err
	}

	return client.GenerateRequest{From: s.Form.From, To: s.Form.To, Days: days}, nil
}

// BeginGenerate включает загрузку или показывает ошибку незаполненной формы.
func (s State) BeginGenerate() (State, error) {
	if _, err := s.GenerateRequest(); err != nil {
		message := MsgMissingFields
		if errors.Is(err, ErrInvalidDays) {
			message = MsgGenerateFailed
		}
		s.Toast = &Toast{Kind: ToastError, Message: message}
		return s, err
	}

	s.Loading = true
	s.Toast = &Toast{Kind: ToastLoading, Message: MsgGenerating}
	return s, nil
}

// GenerateSucceeded показывает полученный маршрут.
func (s State) GenerateSucceeded(result models.PlanResult) State {
	days, _ := parseDays(s.Form.Days)
	s.Trip = &models.Trip{
		From:         s.Form.From,
		To:           s.Form.To,
		Days:         models.Days(days),
		Plan:         result.Plan,
		LocationInfo: result.LocationInfo,
		Images:       models.NormalizeImages(result.Images),
	}
	s.Loading = false
	s.BudgetModalOpen = false
	s.Toast = &Toast{Kind: ToastSuccess, Message: MsgGenerated}
	return s
}

// GenerateFailed снимает загрузку и оставляет прежний маршрут.
func (s State) GenerateFailed() State {
	s.Loading = false
	s.Toast = &Toast{Kind: ToastError, Message: MsgGenerateFailed}
	return s
}

// SaveRequest собирает запрос сохранения: поля формы, затем поля маршрута и email.
func (s State) SaveRequest(email string) (client.SaveRequest, error) {
	if s.Trip == nil {
		return client.SaveRequest{}, ErrNothingToSave
	}

	days, _ := parseDays(s.Form.Days)
	req := client.SaveRequest{
		From:         s.Form.From,
		To:           s.Form.To,
		Days:         days,
		Plan:         s.Trip.Plan,
		LocationInfo: s.Trip.LocationInfo,
		Images:       models.NormalizeImages(s.Trip.Images),
		UserEmail:    email,
	}
	if s.Trip.From != "" {
		req.From = s.Trip.From
	}
	if s.Trip.To != "" {
		req.To = s.Trip.To
	}
	if s.Trip.Days > 0 {
		req.Days = int(s.Trip.Days)
	}

	return req, nil
}

// BeginSave показывает индикатор сохранения.
func (s State) BeginSave() State {
	s.Toast = &Toast{Kind: ToastLoading, Message: MsgSaving}
	return s
}

// SaveSucceeded сообщает об успешном сохранении; список обновляется через HistoryLoaded.
func (s State) SaveSucceeded() State {
	s.Toast = &Toast{Kind: ToastSuccess, Message: MsgSaved}
	return s
}

// SaveFailed сообщает об ошибке сохранения.
func (s State) SaveFailed() State {
	s.Toast = &Toast{Kind: ToastError, Message: MsgSaveFailed}
	return s
}

// HistoryLoaded заменяет список сохраненных поездок.
func (s State) HistoryLoaded(trips []models.Trip) State {
	s.SavedTrips = append([]models.Trip{}, trips...)
	return s
}

// SelectTrip показывает сохраненную поездку и заполняет форму ее полями.
func (s State) SelectTrip(id string) State {
	trip, ok := lo.Find(s.SavedTrips, func(item models.Trip) bool {
		return item.ID == id
	})
	if !ok {
		return s
	}

	s.Trip = &trip
	s.Form = Form{From: trip.From, To: trip.To, Days: strconv.Itoa(int(trip.Days))}
	s.BudgetModalOpen = false
	return s
}

// TripDeleted убирает поездку из списка и скрывает ее, если она открыта.
func (s State) TripDeleted(id string) State {
	s.SavedTrips = lo.Reject(s.SavedTrips, func(item models.Trip, _ int) bool {
		return item.ID == id
	})
	if s.Trip != nil && s.Trip.ID == id {
		s.Trip = nil
		s.BudgetModalOpen = false
	}
	s.Toast = &Toast{Kind: ToastSuccess, Message: MsgDeleted}
	return s
}

// DeleteFailed сообщает об ошибке удаления.
func (s State) DeleteFailed() State {
	s.Toast = &Toast{Kind: ToastError, Message: MsgDeleteFailed}
	return s
}

// DismissToast убирает уведомление.
func (s State) DismissToast() State {
	s.Toast = nil
	return s
}

// ToggleSidebar открывает или закрывает боковую панель.
func (s State) ToggleSidebar() State {
	s.Sidebar.Open = !s.Sidebar.Open
	s.Sidebar.Resizing = false
	return s
}

// StartResize запоминает начальную точку перетаскивания.
func (s State) StartResize(x int) State {
	s.Sidebar.Resizing = true
	s.Sidebar.DragStartX = x
	s.Sidebar.DragStartWidth = s.Sidebar.Width
	return s
}

// Resize применяет новую ширину только в пределах (250, 800).
func (s State) Resize(x int) State {
	if !s.Sidebar.Resizing {
		return s
	}

	width := s.Sidebar.DragStartWidth + (x - s.Sidebar.DragStartX)
	if width > MinSidebarWidth && width < MaxSidebarWidth {
		s.Sidebar.Width = width
	}
	return s
}

// StopResize завершает перетаскивание.
func (s State) StopResize() State {
	s.Sidebar.Resizing = false
	return s
}

// GridTemplateColumns возвращает разметку колонок для текущей панели.
func (s State) GridTemplateColumns() string {
	if !s.Sidebar.Open {
		return "0px 1fr"
	}
	return strconv.Itoa(s.Sidebar.Width) + "px 1fr"
}

// GenerateButtonLabel возвращает подпись кнопки генерации.
func (s State) GenerateButtonLabel() string {
	if s.Loading {
		return "Calculating..."
	}
	return "Plan My Trip ➜"
}

// OpenBudgetModal открывает окно бюджета, если у маршрута есть разбивка.
func (s State) OpenBudgetModal() State {
	if _, ok := s.budgetBreakdown(); ok {
		s.BudgetModalOpen = true
	}
	return s
}

// CloseBudgetModal закрывает окно бюджета.
func (s State) CloseBudgetModal() State {
	s.BudgetModalOpen = false
	return s
}

type BudgetRow struct {
	Icon   string `json:"icon"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// BudgetRows возвращает строки окна бюджета в фиксированном порядке.
func (s State) BudgetRows() []BudgetRow {
	breakdown, ok := s.budgetBreakdown()
	if !ok {
		return nil
	}

	return []BudgetRow{
		{Icon: "🏨", Label: "Accommodation", Amount: breakdown.Accommodation},
		{Icon: "🍔", Label: "Food & Dining", Amount: breakdown.Food},
		{Icon: "🚌", Label: "Local Transport", Amount: breakdown.Transport},
		{Icon: "🎟️", Label: "Activities", Amount: breakdown.Activities},
	}
}

// BudgetModalTitle возвращает заголовок окна бюджета с числом дней из формы.
func (s State) BudgetModalTitle() string {
	return "💸 Estimated Costs (" + s.Form.Days + " Days)"
}

type Summary struct {
	TotalBudget string `json:"totalBudget"`
	Weather     string `json:"weather"`
	Language    string `json:"language"`
}

// Summary возвращает данные карточек бюджета, погоды и языка.
func (s State) Summary() (Summary, bool) {
	info, ok := s.locationInfo()
	if !ok {
		return Summary{}, false
	}

	total := info.TotalBudget
	if total == "" {
		total = "View Cost"
	}
	return Summary{TotalBudget: total, Weather: info.WeatherNote, Language: info.Language}, true
}

// Gallery делит изображения на главное и до двух боковых.
func (s State) Gallery() (string, []string) {
	if s.Trip == nil || len(s.Trip.Images) == 0 {
		return "", nil
	}

	images := s.Trip.Images
	side := images[1:]
	if len(side) > 2 {
		side = side[:2]
	}
	return images[0], side
}

type RentalCard struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RentalCards возвращает карточки проката со ссылками на поиск.
func (s State) RentalCards() []RentalCard {
	info, ok := s.locationInfo()
	if !ok {
		return nil
	}

	return lo.Map(info.Rentals, func(rental ai.Rental, _ int) RentalCard {
		return RentalCard{
			Icon: RentalIcon(rental.Type),
			Name: rental.Name,
			URL:  RentalSearchURL(rental.Name, s.Trip.To),
		}
	})
}

// MapURL возвращает адрес встроенной карты для открытого маршрута.
func (s State) MapURL() string {
	if s.Trip == nil {
		return ""
	}
	return MapEmbedURL(s.Trip.To)
}

func (s State) locationInfo() (ai.LocationInfo, bool) {
	if s.Trip == nil || len(s.Trip.LocationInfo) == 0 {
		return ai.LocationInfo{}, false
	}

	var info ai.LocationInfo
	if err := json.Unmarshal(s.Trip.LocationInfo, &info); err != nil {
		return ai.LocationInfo{}, false
	}
	return info, true
}

func (s State) budgetBreakdown() (ai.BudgetBreakdown, bool) {
	info, ok := s.locationInfo()
	if !ok || info.BudgetBreakdown == nil {
		return ai.BudgetBreakdown{}, false
	}
	return *info.BudgetBreakdown, true
}

func parseDays(value string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || days <= 0 {
		return 0, ErrInvalidDays
	}
	return days, nil
}
