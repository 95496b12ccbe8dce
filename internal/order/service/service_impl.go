package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/config"
	inventorydomain "github.com/dakshina-arts/boxoffice/internal/inventory/domain"
	"github.com/dakshina-arts/boxoffice/internal/metrics"
	"github.com/dakshina-arts/boxoffice/internal/notification"
	"github.com/dakshina-arts/boxoffice/internal/order/domain"
	paymentdomain "github.com/dakshina-arts/boxoffice/internal/payment/domain"
	"github.com/dakshina-arts/boxoffice/internal/providers/email"
	streamingdomain "github.com/dakshina-arts/boxoffice/internal/streaming/domain"
	"github.com/dakshina-arts/boxoffice/pkg/db"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	GenID       *snowflake.Node
	Clock       clock.Clock
	Gateway     paymentdomain.Gateway
	Catalog     catalogdomain.Repository
	Ledger      inventorydomain.Ledger
	Provisioner streamingdomain.Provisioner
	Orders      domain.Repository
	Notifier    *notification.Notifier
	Mail        email.Provider
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.Config
	genID       *snowflake.Node
	clock       clock.Clock
	gateway     paymentdomain.Gateway
	catalog     catalogdomain.Repository
	ledger      inventorydomain.Ledger
	provisioner streamingdomain.Provisioner
	orders      domain.Repository
	notifier    *notification.Notifier
	mail        email.Provider
	metrics     *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		cfg:         p.Cfg,
		genID:       p.GenID,
		clock:       p.Clock,
		gateway:     p.Gateway,
		catalog:     p.Catalog,
		ledger:      p.Ledger,
		provisioner: p.Provisioner,
		orders:      p.Orders,
		notifier:    p.Notifier,
		mail:        p.Mail,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (*paymentdomain.GatewayOrder, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Amount <= 0 || req.Quantity < 0 || strings.TrimSpace(req.TierName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	hasEvent := req.EventID != nil || req.EventUID != ""
	hasWorkshop := req.WorkshopID != nil || req.WorkshopSlug != ""
	if hasEvent == hasWorkshop {
		return nil, domain.ErrInvalidRequest
	}

	item, err := s.resolveCreateItem(ctx, req, hasEvent)
	if err != nil {
		if err == catalogdomain.ErrItemNotFound {
			return nil, domain.ErrInvalidRequest
		}
		return nil, err
	}

	notes := map[string]string{
		paymentdomain.NoteType:     string(item.Type),
		paymentdomain.NoteItemCode: item.Code(),
		paymentdomain.NoteTierName: req.TierName,
		paymentdomain.NoteQuantity: strconv.Itoa(req.Quantity),
	}
	if req.UserName != "" {
		notes[paymentdomain.NoteUserName] = req.UserName
	}
	if req.UserQuestion != "" {
		notes[paymentdomain.NoteQuestion] = req.UserQuestion
	}

	kind := "evt"
	if item.Type == catalogdomain.ItemTypeWorkshop {
		kind = "ws"
	}
	receipt := fmt.Sprintf("receipt_%s_%d_%s", kind, item.ID(), uuid.NewString()[:8])

	gatewayOrder, err := s.gateway.CreateOrder(ctx, paymentdomain.CreateOrderParams{
		Amount:   req.Amount,
		Currency: s.cfg.Currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	s.log.Info("gateway order created",
		zap.String("gateway_order_id", gatewayOrder.ID),
		zap.String("item_code", item.Code()),
		zap.String("tier", req.TierName),
		zap.Int("quantity", req.Quantity),
	)
	return gatewayOrder, nil
}

func (s *Service) resolveCreateItem(ctx context.Context, req domain.CreateOrderRequest, hasEvent bool) (*catalogdomain.BookableItem, error) {
	if hasEvent {
		if req.EventUID != "" {
			return s.catalog.ResolveEventByUID(ctx, s.db, req.EventUID)
		}
		return s.catalog.ResolveEventByID(ctx, s.db, *req.EventID)
	}
	if req.WorkshopSlug != "" {
		return s.catalog.ResolveWorkshopBySlug(ctx, s.db, req.WorkshopSlug)
	}
	return s.catalog.ResolveWorkshopByID(ctx, s.db, *req.WorkshopID)
}

// purchaseContext is what the gateway order notes must give back at
// verification time.
type purchaseContext struct {
	itemType catalogdomain.ItemType
	itemCode string
	tierName string
	quantity int
	userName string
	question string
}

func (s *Service) Verify(ctx context.Context, req domain.VerifyRequest) error {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeRejected)
		return domain.ErrMissingPaymentDetails
	}

	// Signature before any lookup: unauthenticated input buys no work.
	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeRejected)
		s.log.Warn("signature mismatch",
			zap.String("gateway_order_id", req.RazorpayOrderID),
			zap.String("payment_id", req.RazorpayPaymentID),
		)
		return domain.ErrInvalidSignature
	}

	gatewayOrder, err := s.gateway.FetchOrder(ctx, req.RazorpayOrderID)
	if err != nil {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeError)
		return err
	}
	payment, err := s.gateway.FetchPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeError)
		return err
	}

	pc, err := s.recoverContext(gatewayOrder, payment)
	if err != nil {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeInconsistent)
		return err
	}

	item, err := s.resolveVerifiedItem(ctx, pc)
	if err != nil {
		if err == catalogdomain.ErrItemNotFound || err == catalogdomain.ErrDataIntegrity {
			s.metrics.VerifyOutcome(metrics.VerifyOutcomeInconsistent)
			s.log.Error("paid item cannot be resolved, manual reconciliation required",
				zap.String("payment_id", payment.ID),
				zap.String("item_type", string(pc.itemType)),
				zap.String("item_code", pc.itemCode),
				zap.Error(err),
			)
			return domain.ErrItemNotFound
		}
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeError)
		return err
	}

	// Dedup before any mutation. The unique index on payment_id backstops
	// the race between two concurrent verifies of the same payment.
	existing, err := s.orders.FindByPaymentID(ctx, s.db, payment.ID)
	if err != nil {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeError)
		return err
	}
	if existing != nil {
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeDuplicate)
		s.log.Info("payment already processed", zap.String("payment_id", payment.ID))
		return domain.ErrAlreadyProcessed
	}

	// The inventory claim and the order insert commit together: when the
	// unique index rejects a racing duplicate, the rollback also releases
	// the seats that duplicate claimed.
	var (
		tier  *catalogdomain.TicketTier
		links []streamingdomain.WatchLink
		order *domain.Order
	)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tier = s.claimInventory(ctx, tx, item, pc, payment.ID)
		links = s.provisionAccess(ctx, item, tier, payment.ID)

		order = &domain.Order{
			ID:             s.genID.Generate().Int64(),
			UserEmail:      payment.Email,
			ItemType:       pc.itemType,
			ItemID:         pc.itemCode,
			PaymentID:      payment.ID,
			GatewayOrderID: gatewayOrder.ID,
			TierName:       pc.tierName,
			Quantity:       pc.quantity,
			WatchLinks:     marshalLinks(links),
			CreatedAt:      s.clock.Now(),
		}
		return s.orders.Insert(ctx, tx, order)
	})
	if txErr != nil {
		if db.IsDuplicateKeyErr(txErr) {
			s.metrics.VerifyOutcome(metrics.VerifyOutcomeDuplicate)
			s.log.Info("payment already processed", zap.String("payment_id", payment.ID))
			return domain.ErrAlreadyProcessed
		}
		s.metrics.VerifyOutcome(metrics.VerifyOutcomeError)
		return txErr
	}

	s.notify(ctx, item, tier, pc, payment, gatewayOrder, links)

	s.metrics.VerifyOutcome(metrics.VerifyOutcomeOK)
	s.log.Info("order recorded",
		zap.Int64("order_id", order.ID),
		zap.String("payment_id", payment.ID),
		zap.String("item_code", pc.itemCode),
		zap.Int("watch_links", len(links)),
	)
	return nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.orders.ListRecent(ctx, s.db, limit)
}

func (s *Service) recoverContext(gatewayOrder *paymentdomain.GatewayOrder, payment *paymentdomain.GatewayPayment) (*purchaseContext, error) {
	notes := gatewayOrder.Notes
	pc := &purchaseContext{
		itemType: catalogdomain.ItemType(notes[paymentdomain.NoteType]),
		itemCode: notes[paymentdomain.NoteItemCode],
		tierName: notes[paymentdomain.NoteTierName],
		userName: notes[paymentdomain.NoteUserName],
		question: notes[paymentdomain.NoteQuestion],
	}
	pc.quantity, _ = strconv.Atoi(notes[paymentdomain.NoteQuantity])

	switch {
	case pc.itemType != catalogdomain.ItemTypeEvent && pc.itemType != catalogdomain.ItemTypeWorkshop,
		pc.itemCode == "",
		pc.tierName == "",
		pc.quantity <= 0,
		payment.Email == "":
		s.log.Error("gateway records missing purchase context, manual reconciliation required",
			zap.String("gateway_order_id", gatewayOrder.ID),
			zap.String("payment_id", payment.ID),
			zap.Any("notes", notes),
		)
		return nil, domain.ErrInconsistentState
	}
	return pc, nil
}

func (s *Service) resolveVerifiedItem(ctx context.Context, pc *purchaseContext) (*catalogdomain.BookableItem, error) {
	if pc.itemType == catalogdomain.ItemTypeWorkshop {
		return s.catalog.ResolveWorkshopBySlug(ctx, s.db, pc.itemCode)
	}
	return s.catalog.ResolveEventByUID(ctx, s.db, pc.itemCode)
}

// claimInventory applies the conditional increment. Failing here after money
// has moved is a reconciliation problem, not a reason to drop the order; the
// purchase degrades to a record with no tier processing.
func (s *Service) claimInventory(ctx context.Context, tx *gorm.DB, item *catalogdomain.BookableItem, pc *purchaseContext, paymentID string) *catalogdomain.TicketTier {
	tier, err := s.ledger.IncrementSold(ctx, tx, item.Type, item.ID(), pc.tierName, pc.quantity)
	if err != nil {
		s.log.Error("inventory claim failed after captured payment",
			zap.String("payment_id", paymentID),
			zap.String("item_code", pc.itemCode),
			zap.String("tier", pc.tierName),
			zap.Int("quantity", pc.quantity),
			zap.Error(err),
		)
		return nil
	}
	return tier
}

// provisionAccess builds the buyer's watch links. Zoom tiers get the stored
// links verbatim; online tiers get a freshly minted signed link per schedule
// unit. A unit past its grace window, or one that fails to mint, is skipped.
func (s *Service) provisionAccess(ctx context.Context, item *catalogdomain.BookableItem, tier *catalogdomain.TicketTier, paymentID string) []streamingdomain.WatchLink {
	if tier == nil {
		return nil
	}

	var links []streamingdomain.WatchLink

	if tier.IsZoomAccess {
		for _, unit := range item.ScheduleUnits() {
			if unit.ZoomLink == "" {
				continue
			}
			links = append(links, streamingdomain.WatchLink{
				Label: unit.Label,
				URL:   unit.ZoomLink,
			})
		}
		return links
	}

	if !tier.IsOnlineAccess {
		return nil
	}

	now := s.clock.Now()
	for _, unit := range item.ScheduleUnits() {
		if unit.MuxLivestreamID == "" {
			continue
		}
		expiresAt := unit.EndsAt.Add(s.cfg.AccessGraceWindow)
		if !expiresAt.After(now) {
			s.log.Info("schedule unit past grace window, skipping",
				zap.String("payment_id", paymentID),
				zap.String("unit", unit.Label),
			)
			continue
		}
		link, err := s.provisioner.MintLink(ctx, unit.Label, unit.MuxLivestreamID, expiresAt)
		if err != nil {
			s.log.Error("link provisioning failed",
				zap.String("payment_id", paymentID),
				zap.String("unit", unit.Label),
				zap.Error(err),
			)
			continue
		}
		s.metrics.LinkMinted()
		links = append(links, *link)
	}
	return links
}

// notify sends buyer-facing mail after the order is committed. Nothing here
// can fail the verification.
func (s *Service) notify(ctx context.Context, item *catalogdomain.BookableItem, tier *catalogdomain.TicketTier, pc *purchaseContext, payment *paymentdomain.GatewayPayment, gatewayOrder *paymentdomain.GatewayOrder, links []streamingdomain.WatchLink) {
	confirmationTier := catalogdomain.TicketTier{Name: pc.tierName}
	if tier != nil {
		confirmationTier = *tier
	}

	linkParams := make([]notification.WatchLinkParam, 0, len(links))
	for _, l := range links {
		linkParams = append(linkParams, notification.WatchLinkParam{Label: l.Label, URL: l.URL})
	}

	err := s.notifier.SendOrderConfirmation(ctx, notification.OrderConfirmation{
		BuyerEmail: payment.Email,
		BuyerName:  pc.userName,
		Item:       *item,
		Tier:       confirmationTier,
		Quantity:   pc.quantity,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		PaymentID:  payment.ID,
		WatchLinks: linkParams,
	})
	if err != nil {
		s.metrics.EmailFailed("order_confirmation")
		s.log.Error("confirmation email failed",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	} else {
		s.metrics.EmailSent("order_confirmation")
	}

	if pc.itemType == catalogdomain.ItemTypeWorkshop && pc.question != "" {
		s.forwardQuestion(ctx, item, pc, payment)
	}
}

// forwardQuestion relays a workshop buyer's question to the inquiry inbox
// with reply-to set to the buyer.
func (s *Service) forwardQuestion(ctx context.Context, item *catalogdomain.BookableItem, pc *purchaseContext, payment *paymentdomain.GatewayPayment) {
	name := pc.userName
	if name == "" {
		name = payment.Email
	}
	subject := fmt.Sprintf("Workshop question: %s", item.Title())
	body := fmt.Sprintf(
		"<p><strong>%s</strong> asked while booking <strong>%s</strong>:</p><blockquote>%s</blockquote><p>Payment: %s</p>",
		html.EscapeString(name),
		html.EscapeString(item.Title()),
		html.EscapeString(pc.question),
		payment.ID,
	)

	err := s.mail.Send(ctx, subject, body,
		email.Recipient{Email: s.cfg.Inquiry.InboxEmail, Name: s.cfg.Inquiry.InboxName},
		&email.Recipient{Email: payment.Email, Name: name},
	)
	if err != nil {
		s.metrics.EmailFailed("workshop_question")
		s.log.Error("workshop question relay failed",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		return
	}
	s.metrics.EmailSent("workshop_question")
}

func marshalLinks(links []streamingdomain.WatchLink) datatypes.JSON {
	if len(links) == 0 {
		return datatypes.JSON([]byte("[]"))
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
