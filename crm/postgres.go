package crm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

const defaultQueryTimeout = 10 * time.Second

// viewingSlots is the fixed daily grid a property can be shown in.
var viewingSlots = []string{
	"10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00", "18:00",
}

type StoreConfig struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	QueryTimeout time.Duration `envconfig:"QUERY_TIMEOUT" split_words:"true" default:"10s"`
}

// StoreOption customizes Store.
type StoreOption func(*Store)

func WithEventPublisher(events contractx.EventPublisher) StoreOption {
	return func(s *Store) {
		s.events = events
	}
}

func WithDB(db *bun.DB) StoreOption {
	return func(s *Store) {
		if db != nil {
			s.db = db
		}
	}
}

// Store implements contract.DomainGateway on Postgres via bun.
type Store struct {
	db           *bun.DB
	queryTimeout time.Duration
	events       contractx.EventPublisher
}

var _ contractx.DomainGateway = (*Store)(nil)

func NewStore(cfg StoreConfig, opts ...StoreOption) (*Store, error) {
	store := &Store{
		queryTimeout: cfg.QueryTimeout,
	}
	if store.queryTimeout <= 0 {
		store.queryTimeout = defaultQueryTimeout
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	if store.db == nil {
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			return nil, errors.New("postgres dsn is required")
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		store.db = bun.NewDB(sqldb, pgdialect.New())
	}

	return store, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func MustNewStore(cfg StoreConfig, opts ...StoreOption) *Store {
	store, err := NewStore(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return store
}

type propertyRow struct {
	bun.BaseModel `bun:"table:properties,alias:p"`

	ID                 string    `bun:"id,pk"`
	Title              string    `bun:"title"`
	Slug               string    `bun:"slug"`
	PropertyType       string    `bun:"property_type"`
	PriceAED           float64   `bun:"price_aed"`
	PriceUSD           float64   `bun:"price_usd"`
	Bedrooms           int       `bun:"bedrooms"`
	Bathrooms          int       `bun:"bathrooms"`
	SizeSqft           float64   `bun:"size_sqft"`
	Location           string    `bun:"location"`
	Features           []string  `bun:"features,array"`
	RentalYield        *float64  `bun:"rental_yield"`
	ROIEstimate        *float64  `bun:"roi_estimate"`
	GoldenVisaEligible bool      `bun:"golden_visa_eligible"`
	IsFeatured         bool      `bun:"is_featured"`
	Status             string    `bun:"status"`
	PaymentPlan        *string   `bun:"payment_plan"`
	CompletionDate     *string   `bun:"completion_date"`
	MainImageURL       *string   `bun:"main_image_url"`
	CreatedAt          time.Time `bun:"created_at"`
}

type leadRow struct {
	bun.BaseModel `bun:"table:leads,alias:l"`

	ID                 string   `bun:"id,pk,default:gen_random_uuid()"`
	FullName           string   `bun:"full_name"`
	Email              string   `bun:"email"`
	Phone              string   `bun:"phone"`
	BudgetMinAED       float64  `bun:"budget_min_aed"`
	BudgetMaxAED       *float64 `bun:"budget_max_aed"`
	PropertyType       *string  `bun:"property_type"`
	Bedrooms           *int     `bun:"bedrooms"`
	LocationPreference *string  `bun:"location_preference"`
	Timeline           string   `bun:"timeline"`
	Purpose            string   `bun:"purpose"`
	FinancingNeeded    bool     `bun:"financing_needed"`
	Source             string   `bun:"source"`
	LeadScore          int      `bun:"lead_score"`
	Status             string   `bun:"status"`
	Notes              *string  `bun:"notes"`
}

type viewingRow struct {
	bun.BaseModel `bun:"table:viewings,alias:v"`

	ID          string `bun:"id,pk,default:gen_random_uuid()"`
	LeadID      string `bun:"lead_id"`
	PropertyID  string `bun:"property_id"`
	ViewingDate string `bun:"viewing_date"`
	ViewingTime string `bun:"viewing_time"`
	ViewingType string `bun:"viewing_type"`
	Status      string `bun:"status"`
}

// SearchProperties applies the filter predicates conjunctively over available
// listings, featured first then newest.
func (s *Store) SearchProperties(ctx context.Context, filter contractx.PropertyFilter) ([]contractx.Property, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var rows []propertyRow
	q := s.db.NewSelect().
		Model(&rows).
		Where("p.status = ?", "available").
		OrderExpr("p.is_featured DESC").
		OrderExpr("p.created_at DESC")

	if t := strings.TrimSpace(filter.PropertyType); t != "" && t != "all" {
		q = q.Where("p.property_type = ?", t)
	}
	if filter.MinPriceAED != nil {
		q = q.Where("p.price_aed >= ?", *filter.MinPriceAED)
	}
	if filter.MaxPriceAED != nil {
		q = q.Where("p.price_aed <= ?", *filter.MaxPriceAED)
	}
	if filter.Bedrooms != nil {
		q = q.Where("p.bedrooms = ?", *filter.Bedrooms)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		q = q.Where("p.location ILIKE ?", "%"+loc+"%")
	}
	if filter.GoldenVisaEligible != nil && *filter.GoldenVisaEligible {
		q = q.Where("p.golden_visa_eligible = TRUE")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	props := make([]contractx.Property, 0, len(rows))
	for i := range rows {
		props = append(props, rows[i].toProperty())
	}
	return props, nil
}

// CreateLead scores and persists a qualification. The write is detached from
// caller cancellation: a client disconnect mid-turn must not lose the lead.
func (s *Store) CreateLead(ctx context.Context, q contractx.LeadQualification) (contractx.Lead, error) {
	if err := q.Validate(); err != nil {
		return contractx.Lead{}, err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
	defer cancel()

	row := leadRow{
		FullName:           strings.TrimSpace(q.FullName),
		Email:              strings.TrimSpace(q.Email),
		Phone:              strings.TrimSpace(q.Phone),
		BudgetMinAED:       q.BudgetMinAED,
		BudgetMaxAED:       q.BudgetMaxAED,
		PropertyType:       optional(q.PropertyType),
		Bedrooms:           q.Bedrooms,
		LocationPreference: optional(q.LocationPreference),
		Timeline:           string(q.Timeline),
		Purpose:            string(q.Purpose),
		FinancingNeeded:    q.FinancingNeeded,
		Source:             "chatbot",
		LeadScore:          ScoreLead(q),
		Status:             "new",
		Notes:              optional(q.Notes),
	}

	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return contractx.Lead{}, fmt.Errorf("%w: %v", contractx.ErrLeadPersistence, err)
	}

	lead := contractx.Lead{ID: row.ID, Score: row.LeadScore}
	s.publishLeadCreated(ctx, lead, q)
	return lead, nil
}

// CheckViewingAvailability returns the slots on the fixed grid not already
// booked for the property and date.
func (s *Store) CheckViewingAvailability(ctx context.Context, propertyID, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var booked []string
	err := s.db.NewSelect().
		Model((*viewingRow)(nil)).
		Column("v.viewing_time").
		Where("v.property_id = ?", propertyID).
		Where("v.viewing_date = ?", date).
		Where("v.status = ?", "scheduled").
		Scan(ctx, &booked)
	if err != nil {
		return nil, fmt.Errorf("check viewing slots: %w", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, slot := range booked {
		taken[slot] = struct{}{}
	}

	available := make([]string, 0, len(viewingSlots))
	for _, slot := range viewingSlots {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available, nil
}

// ScheduleViewing books a slot, reporting ErrViewingConflict when it is
// already taken.
func (s *Store) ScheduleViewing(ctx context.Context, leadID, propertyID, date, timeSlot, viewingType string) (contractx.Viewing, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
	defer cancel()

	if strings.TrimSpace(viewingType) == "" {
		viewingType = "in-person"
	}

	exists, err := s.db.NewSelect().
		Model((*viewingRow)(nil)).
		Where("v.property_id = ?", propertyID).
		Where("v.viewing_date = ?", date).
		Where("v.viewing_time = ?", timeSlot).
		Where("v.status = ?", "scheduled").
		Exists(ctx)
	if err != nil {
		return contractx.Viewing{}, fmt.Errorf("check viewing conflict: %w", err)
	}
	if exists {
		return contractx.Viewing{}, fmt.Errorf("%w: %s %s is already booked", contractx.ErrViewingConflict, date, timeSlot)
	}

	row := viewingRow{
		LeadID:      leadID,
		PropertyID:  propertyID,
		ViewingDate: date,
		ViewingTime: timeSlot,
		ViewingType: viewingType,
		Status:      "scheduled",
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return contractx.Viewing{}, fmt.Errorf("schedule viewing: %w", err)
	}

	return contractx.Viewing{
		ID:          row.ID,
		LeadID:      row.LeadID,
		PropertyID:  row.PropertyID,
		ViewingDate: row.ViewingDate,
		ViewingTime: row.ViewingTime,
		ViewingType: row.ViewingType,
		Status:      row.Status,
	}, nil
}

func (s *Store) publishLeadCreated(ctx context.Context, lead contractx.Lead, q contractx.LeadQualification) {
	if s.events == nil {
		return
	}
	payload := map[string]any{
		"lead_id":    lead.ID,
		"lead_score": lead.Score,
		"full_name":  q.FullName,
		"timeline":   string(q.Timeline),
		"purpose":    string(q.Purpose),
	}
	if err := s.events.Publish(ctx, "lead.created", payload); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID).Msg("lead.created event not delivered")
	}
}

func (r propertyRow) toProperty() contractx.Property {
	return contractx.Property{
		ID:                 r.ID,
		Title:              r.Title,
		Slug:               r.Slug,
		PropertyType:       r.PropertyType,
		PriceAED:           r.PriceAED,
		PriceUSD:           r.PriceUSD,
		Bedrooms:           r.Bedrooms,
		Bathrooms:          r.Bathrooms,
		SizeSqft:           r.SizeSqft,
		Location:           r.Location,
		Features:           r.Features,
		RentalYield:        r.RentalYield,
		ROIEstimate:        r.ROIEstimate,
		GoldenVisaEligible: r.GoldenVisaEligible,
		IsFeatured:         r.IsFeatured,
		Status:             r.Status,
		PaymentPlan:        r.PaymentPlan,
		CompletionDate:     r.CompletionDate,
		MainImageURL:       r.MainImageURL,
	}
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
