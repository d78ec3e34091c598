package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/caja"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
)

// SessionManager ciclo de vida de la caja: apertura, saldos esperados y cierre con cuadre.
type SessionManager struct {
	txRunner    repository.TxRunner
	sessionRepo repository.CashSessionRepository
	movRepo     repository.CashMovementRepository
	reports     ReportGenerator
	epsilon     decimal.Decimal
	title       string
	log         zerolog.Logger
}

// NewSessionManager construye el gestor. reports puede ser nil si no se sirve el PDF de cierre.
// epsilon <= 0 usa caja.DefaultEpsilon.
func NewSessionManager(
	txRunner repository.TxRunner,
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
	reports ReportGenerator,
	epsilon decimal.Decimal,
	title string,
	log zerolog.Logger,
) *SessionManager {
	if !epsilon.IsPositive() {
		epsilon = caja.DefaultEpsilon
	}
	return &SessionManager{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		movRepo:     movRepo,
		reports:     reports,
		epsilon:     epsilon,
		title:       title,
		log:         log.With().Str("component", "cash_session").Logger(),
	}
}

// Open abre una caja con los saldos iniciales. ErrSessionAlreadyOpen si ya hay una abierta.
func (m *SessionManager) Open(ctx context.Context, operator *int64, req dto.OpenSessionRequest) (*dto.OpenSessionResult, error) {
	if req.Opening.HasNegative() {
		return nil, fmt.Errorf("%w: los saldos iniciales no pueden ser negativos", domain.ErrInvalidAmount)
	}
	session := &entity.CashSession{
		OpenedBy: operator,
		Opening:  roundBalances(req.Opening),
		Status:   entity.SessionOpen,
	}
	err := m.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		open, err := repos.CashSessions.GetOpen(ctx)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrSessionAlreadyOpen
		}
		// la restricción única parcial cubre la carrera entre dos aperturas simultáneas
		return repos.CashSessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	m.log.Info().
		Int64("session_id", session.ID).
		Str("opening_total", session.Opening.Total().StringFixed(2)).
		Msg("caja abierta")
	return &dto.OpenSessionResult{SessionID: session.ID, Message: "caja abierta"}, nil
}

// Current devuelve la sesión abierta o ErrNoOpenSession.
func (m *SessionManager) Current(ctx context.Context) (*dto.CashSessionResponse, error) {
	s, err := m.sessionRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNoOpenSession
	}
	resp := dto.NewCashSessionResponse(s)
	return &resp, nil
}

// Get devuelve una sesión por id.
func (m *SessionManager) Get(ctx context.Context, sessionID int64) (*dto.CashSessionResponse, error) {
	s, err := m.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewCashSessionResponse(s)
	return &resp, nil
}

// ExpectedBalance saldo esperado de un método: inicial + ingresos activos − egresos activos.
func (m *SessionManager) ExpectedBalance(ctx context.Context, sessionID int64, method entity.PaymentMethod) (decimal.Decimal, error) {
	if !method.Valid() {
		return decimal.Zero, domain.ErrInvalidMethod
	}
	b, err := m.ExpectedBalances(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Expected.Get(method), nil
}

// ExpectedBalances saldos esperados de los cuatro métodos. Para una sesión abierta incluye
// los movimientos sin asignar; para una cerrada solo los que quedaron asignados a ella.
func (m *SessionManager) ExpectedBalances(ctx context.Context, sessionID int64) (*dto.SessionBalancesResponse, error) {
	s, err := m.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	totals, err := m.sessionTotals(ctx, s)
	if err != nil {
		return nil, err
	}
	return balancesResponse(s, totals), nil
}

// CurrentBalances saldos esperados de la caja abierta.
func (m *SessionManager) CurrentBalances(ctx context.Context) (*dto.SessionBalancesResponse, error) {
	s, err := m.sessionRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNoOpenSession
	}
	totals, err := m.sessionTotals(ctx, s)
	if err != nil {
		return nil, err
	}
	return balancesResponse(s, totals), nil
}

// Close cierra la caja: bloquea la sesión, calcula lo esperado, lo compara contra lo contado,
// persiste el cierre y asigna a la sesión los movimientos huérfanos. Todo en una transacción.
// Las diferencias no son error: se devuelven en el resultado con estado con_diferencias.
func (m *SessionManager) Close(ctx context.Context, sessionID int64, operator *int64, req dto.CloseSessionRequest) (*dto.CloseSessionResult, error) {
	if req.Counted.HasNegative() {
		return nil, fmt.Errorf("%w: los montos contados no pueden ser negativos", domain.ErrInvalidAmount)
	}
	counted := roundBalances(req.Counted)

	var (
		rec    caja.Reconciliation
		totals caja.Totals
		swept  int64
	)
	err := m.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		s, err := repos.CashSessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !s.IsOpen() {
			return domain.ErrNoOpenSession
		}

		rows, err := repos.CashMovements.TotalsForSession(ctx, sessionID)
		if err != nil {
			return err
		}
		totals = caja.NewTotals(rows)
		rec = caja.Reconcile(totals.Expected(s.Opening), counted, m.epsilon)

		now := time.Now()
		ingress, egress := totals.TotalIngress(), totals.TotalEgress()
		s.ClosedAt = &now
		s.ClosedBy = operator
		s.Counted = &counted
		s.Differences = &rec.Differences
		s.SystemIngress = &ingress
		s.SystemEgress = &egress
		s.Notes = req.Notes
		s.Status = rec.Status
		if err := repos.CashSessions.Close(ctx, s); err != nil {
			return err
		}

		swept, err = repos.CashMovements.AttachUnassigned(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ev := m.log.Info()
	if rec.Status == entity.SessionClosedWithDiffs {
		ev = m.log.Warn()
	}
	ev.Int64("session_id", sessionID).
		Str("status", string(rec.Status)).
		Str("diff_efectivo", rec.Differences.Efectivo.StringFixed(2)).
		Str("diff_yape", rec.Differences.Yape.StringFixed(2)).
		Str("diff_plin", rec.Differences.Plin.StringFixed(2)).
		Str("diff_pos_banco", rec.Differences.POSBanco.StringFixed(2)).
		Int64("swept", swept).
		Msg("caja cerrada")

	msg := "caja cerrada correctamente"
	if rec.Status == entity.SessionClosedWithDiffs {
		msg = "caja cerrada con diferencias"
	}
	return &dto.CloseSessionResult{
		SessionID:      sessionID,
		Status:         string(rec.Status),
		Expected:       rec.Expected,
		Counted:        rec.Counted,
		Differences:    rec.Differences,
		SystemIngress:  totals.TotalIngress(),
		SystemEgress:   totals.TotalEgress(),
		SweptMovements: swept,
		Message:        msg,
	}, nil
}

// Report genera el PDF de cierre (o de estado, si la sesión sigue abierta).
func (m *SessionManager) Report(ctx context.Context, sessionID int64) ([]byte, string, error) {
	if m.reports == nil {
		return nil, "", fmt.Errorf("%w: reporte PDF no configurado", domain.ErrConflict)
	}
	s, err := m.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if s == nil {
		return nil, "", domain.ErrNotFound
	}
	movs, err := m.sessionMovements(ctx, s)
	if err != nil {
		return nil, "", err
	}
	totals := totalsFromMovements(movs)
	pdf, err := m.reports.GenerateClosingReport(ctx, ClosingReport{
		Session:       s,
		Expected:      totals.Expected(s.Opening),
		Ingress:       totals.Ingress,
		Egress:        totals.Egress,
		TotalIngress:  totals.TotalIngress(),
		TotalEgress:   totals.TotalEgress(),
		Movements:     movs,
		GeneratedAt:   time.Now(),
		BusinessTitle: m.title,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte de cierre: %w", err)
	}
	return pdf, fmt.Sprintf("cierre-caja-%d.pdf", s.ID), nil
}

func (m *SessionManager) sessionTotals(ctx context.Context, s *entity.CashSession) (caja.Totals, error) {
	if s.IsOpen() {
		rows, err := m.movRepo.TotalsForSession(ctx, s.ID)
		if err != nil {
			return caja.Totals{}, err
		}
		return caja.NewTotals(rows), nil
	}
	movs, err := m.sessionMovements(ctx, s)
	if err != nil {
		return caja.Totals{}, err
	}
	return totalsFromMovements(movs), nil
}

// sessionMovements movimientos de la sesión; los no asignados solo cuentan mientras esté abierta.
func (m *SessionManager) sessionMovements(ctx context.Context, s *entity.CashSession) ([]*entity.CashMovement, error) {
	movs, err := m.movRepo.ListForSession(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if s.IsOpen() {
		return movs, nil
	}
	own := movs[:0]
	for _, mv := range movs {
		if mv.SessionID != nil && *mv.SessionID == s.ID {
			own = append(own, mv)
		}
	}
	return own, nil
}

func totalsFromMovements(movs []*entity.CashMovement) caja.Totals {
	rows := make([]caja.MethodTotal, 0, len(movs))
	for _, mv := range movs {
		if !mv.Active() {
			continue
		}
		rows = append(rows, caja.MethodTotal{Method: mv.Method, Direction: mv.Direction, Amount: mv.Amount})
	}
	return caja.NewTotals(rows)
}

func balancesResponse(s *entity.CashSession, totals caja.Totals) *dto.SessionBalancesResponse {
	return &dto.SessionBalancesResponse{
		SessionID:    s.ID,
		Status:       string(s.Status),
		OpenedAt:     s.OpenedAt,
		Opening:      s.Opening,
		Ingress:      totals.Ingress,
		Egress:       totals.Egress,
		Expected:     totals.Expected(s.Opening),
		TotalIngress: totals.TotalIngress(),
		TotalEgress:  totals.TotalEgress(),
	}
}

func roundBalances(b entity.Balances) entity.Balances {
	var out entity.Balances
	for _, m := range entity.PaymentMethods {
		out.Set(m, b.Get(m).Round(2))
	}
	return out
}
