package cash_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/domain"
	"github.com/jhoicas/caja-market/internal/domain/entity"
	"github.com/jhoicas/caja-market/internal/domain/repository"
	"github.com/jhoicas/caja-market/internal/infrastructure/memory"
)

type fakeReports struct {
	got *cash.ClosingReport
}

func (f *fakeReports) GenerateClosingReport(_ context.Context, r cash.ClosingReport) ([]byte, error) {
	f.got = &r
	return []byte("%PDF-fake"), nil
}

type env struct {
	repos    repository.Repositories
	ledger   *cash.Ledger
	sessions *cash.SessionManager
	reports  *fakeReports
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	runner := memory.NewTxRunner(store)
	reports := &fakeReports{}
	return &env{
		repos:    repos,
		ledger:   cash.NewLedger(runner, repos.CashMovements, zerolog.Nop()),
		sessions: cash.NewSessionManager(runner, repos.CashSessions, repos.CashMovements, reports, decimal.Zero, "Gimnasio Test", zerolog.Nop()),
		reports:  reports,
	}
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (e *env) open(t *testing.T, opening entity.Balances) int64 {
	t.Helper()
	res, err := e.sessions.Open(context.Background(), nil, dto.OpenSessionRequest{Opening: opening})
	require.NoError(t, err)
	return res.SessionID
}

func (e *env) record(t *testing.T, direction, category, method, amount string) int64 {
	t.Helper()
	res, err := e.ledger.RecordFromRequest(context.Background(), nil, dto.RecordMovementRequest{
		Direction: direction, Category: category, Method: method, Amount: amt(amount), Description: "test",
	})
	require.NoError(t, err)
	return res.MovementID
}

func TestOpen_SegundaAperturaFalla(t *testing.T) {
	e := newEnv(t)
	first := e.open(t, entity.Balances{Efectivo: amt("100")})

	_, err := e.sessions.Open(context.Background(), nil, dto.OpenSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	current, err := e.sessions.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, current.ID, "la sesión existente no cambia")
	assert.Equal(t, "abierta", current.Status)
	assert.Equal(t, "100.00", current.Opening.Efectivo.StringFixed(2))
}

func TestOpen_SaldoNegativo(t *testing.T) {
	_, err := newEnv(t).sessions.Open(context.Background(), nil, dto.OpenSessionRequest{
		Opening: entity.Balances{Yape: amt("-1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRecord_AsignaSesionAbierta(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	before := e.record(t, "egreso", "gasto", "efectivo", "5")
	sessionID := e.open(t, entity.Balances{})
	after := e.record(t, "ingreso", "membresia", "yape", "80")

	m1, _ := e.repos.CashMovements.GetByID(ctx, before)
	m2, _ := e.repos.CashMovements.GetByID(ctx, after)
	assert.Nil(t, m1.SessionID, "sin caja abierta queda sin asignar")
	require.NotNil(t, m2.SessionID)
	assert.Equal(t, sessionID, *m2.SessionID)
}

func TestRecord_Validaciones(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	cases := []struct {
		name string
		req  dto.RecordMovementRequest
		want error
	}{
		{"monto cero", dto.RecordMovementRequest{Direction: "ingreso", Category: "clase", Method: "efectivo", Amount: amt("0")}, domain.ErrInvalidAmount},
		{"método desconocido", dto.RecordMovementRequest{Direction: "ingreso", Category: "clase", Method: "tarjeta", Amount: amt("1")}, domain.ErrInvalidMethod},
		{"categoría desconocida", dto.RecordMovementRequest{Direction: "ingreso", Category: "otros", Method: "efectivo", Amount: amt("1")}, domain.ErrInvalidInput},
		{"sentido desconocido", dto.RecordMovementRequest{Direction: "salida", Category: "gasto", Method: "efectivo", Amount: amt("1")}, domain.ErrInvalidInput},
		{"remesa manual", dto.RecordMovementRequest{Direction: "egreso", Category: "remesa", Method: "efectivo", Amount: amt("1")}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.ledger.RecordFromRequest(ctx, nil, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReverse(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sessionID := e.open(t, entity.Balances{Efectivo: amt("50")})
	id := e.record(t, "egreso", "gasto", "efectivo", "20")

	bal, err := e.sessions.ExpectedBalance(ctx, sessionID, entity.MethodEfectivo)
	require.NoError(t, err)
	assert.True(t, bal.Equal(amt("30")))

	res, err := e.ledger.Reverse(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "extornado", res.Status)

	bal, _ = e.sessions.ExpectedBalance(ctx, sessionID, entity.MethodEfectivo)
	assert.True(t, bal.Equal(amt("50")), "el extorno deja de contar")

	_, err = e.ledger.Reverse(ctx, id)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)

	_, err = e.ledger.Reverse(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_ParDeMovimientosConMismaOperacion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sessionID := e.open(t, entity.Balances{Efectivo: amt("200")})

	res, err := e.ledger.Transfer(ctx, nil, dto.TransferRequest{From: "efectivo", To: "pos_banco", Amount: amt("150")})
	require.NoError(t, err)

	eg, _ := e.repos.CashMovements.GetByID(ctx, res.EgressID)
	in, _ := e.repos.CashMovements.GetByID(ctx, res.IngressID)
	assert.Equal(t, res.OperationID, eg.OperationID)
	assert.Equal(t, res.OperationID, in.OperationID)
	assert.Equal(t, entity.CategoryRemesa, eg.Category)
	assert.Equal(t, entity.CashEgreso, eg.Direction)
	assert.Equal(t, entity.CashIngreso, in.Direction)

	bal, err := e.sessions.ExpectedBalances(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, bal.Expected.Efectivo.Equal(amt("50")))
	assert.True(t, bal.Expected.POSBanco.Equal(amt("150")))
	assert.True(t, bal.Expected.Total().Equal(amt("200")), "la remesa no cambia el total")

	_, err = e.ledger.Transfer(ctx, nil, dto.TransferRequest{From: "yape", To: "yape", Amount: amt("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.ledger.Transfer(ctx, nil, dto.TransferRequest{From: "yape", To: "plin", Amount: amt("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestClose_Cuadrada(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sessionID := e.open(t, entity.Balances{Efectivo: amt("100")})
	e.record(t, "ingreso", "membresia", "efectivo", "50")
	e.record(t, "egreso", "gasto", "efectivo", "20")
	e.record(t, "ingreso", "clase", "yape", "35.50")

	operator := int64(2)
	res, err := e.sessions.Close(ctx, sessionID, &operator, dto.CloseSessionRequest{
		Counted: entity.Balances{Efectivo: amt("130"), Yape: amt("35.50")},
		Notes:   "turno mañana",
	})
	require.NoError(t, err)
	assert.Equal(t, "cerrada", res.Status)
	assert.True(t, res.SystemIngress.Equal(amt("85.50")))
	assert.True(t, res.SystemEgress.Equal(amt("20")))
	assert.True(t, res.Differences.Total().IsZero())

	s, err := e.sessions.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "cerrada", s.Status)
	require.NotNil(t, s.ClosedBy)
	assert.Equal(t, operator, *s.ClosedBy)
	assert.Equal(t, "turno mañana", s.Notes)

	_, err = e.sessions.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestClose_ConDiferenciasNoEsError(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sessionID := e.open(t, entity.Balances{Efectivo: amt("100")})
	e.record(t, "ingreso", "market", "efectivo", "50")

	res, err := e.sessions.Close(ctx, sessionID, nil, dto.CloseSessionRequest{
		Counted: entity.Balances{Efectivo: amt("145")},
	})
	require.NoError(t, err)
	assert.Equal(t, "con_diferencias", res.Status)
	assert.True(t, res.Differences.Efectivo.Equal(amt("-5")))
}

func TestClose_Reglas(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.sessions.Close(ctx, 42, nil, dto.CloseSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sessionID := e.open(t, entity.Balances{})
	_, err = e.sessions.Close(ctx, sessionID, nil, dto.CloseSessionRequest{})
	require.NoError(t, err)

	_, err = e.sessions.Close(ctx, sessionID, nil, dto.CloseSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrNoOpenSession, "cerrar dos veces falla")

	_, err = e.sessions.Close(ctx, sessionID, nil, dto.CloseSessionRequest{Counted: entity.Balances{Plin: amt("-3")}})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestClose_BarreMovimientosHuerfanos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	orphan := e.record(t, "ingreso", "clase", "plin", "25")
	sessionID := e.open(t, entity.Balances{})

	bal, err := e.sessions.CurrentBalances(ctx)
	require.NoError(t, err)
	assert.True(t, bal.Expected.Plin.Equal(amt("25")), "la sesión abierta ve los no asignados")

	res, err := e.sessions.Close(ctx, sessionID, nil, dto.CloseSessionRequest{Counted: entity.Balances{Plin: amt("25")}})
	require.NoError(t, err)
	assert.Equal(t, "cerrada", res.Status)
	assert.EqualValues(t, 1, res.SweptMovements)

	m, _ := e.repos.CashMovements.GetByID(ctx, orphan)
	require.NotNil(t, m.SessionID)
	assert.Equal(t, sessionID, *m.SessionID)

	// Lo registrado después del cierre no altera la sesión cerrada.
	e.record(t, "ingreso", "clase", "plin", "10")
	closed, err := e.sessions.ExpectedBalances(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, closed.Expected.Plin.Equal(amt("25")))
}

func TestList_FiltraPorCategoriaYEstado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.record(t, "ingreso", "clase", "efectivo", "10")
	gasto := e.record(t, "egreso", "gasto", "efectivo", "3")
	e.record(t, "egreso", "gasto", "yape", "4")
	_, err := e.ledger.Reverse(ctx, gasto)
	require.NoError(t, err)

	gastos, err := e.ledger.List(ctx, repository.CashMovementFilter{Category: entity.CategoryGasto})
	require.NoError(t, err)
	assert.Len(t, gastos, 2)

	activos, err := e.ledger.List(ctx, repository.CashMovementFilter{Category: entity.CategoryGasto, Status: entity.MovementActive})
	require.NoError(t, err)
	require.Len(t, activos, 1)
	assert.Equal(t, "yape", activos[0].Method)

	_, err = e.ledger.List(ctx, repository.CashMovementFilter{Category: "otros"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sessionID := e.open(t, entity.Balances{Efectivo: amt("10")})
	e.record(t, "ingreso", "clase", "efectivo", "5")

	pdf, name, err := e.sessions.Report(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "cierre-caja-1.pdf", name)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, e.reports.got)
	assert.True(t, e.reports.got.Expected.Efectivo.Equal(amt("15")))
	assert.Len(t, e.reports.got.Movements, 1)
	assert.Equal(t, "Gimnasio Test", e.reports.got.BusinessTitle)

	_, _, err = e.sessions.Report(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementsYTotalesDeSesion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	e.record(t, "egreso", "gasto", "efectivo", "5") // sin sesión todavía
	sessionID := e.open(t, entity.Balances{})
	e.record(t, "ingreso", "membresia", "yape", "80")
	e.record(t, "ingreso", "clase", "efectivo", "20")
	reversed := e.record(t, "ingreso", "clase", "efectivo", "15")
	_, err := e.ledger.Reverse(ctx, reversed)
	require.NoError(t, err)

	movs, err := e.ledger.MovementsForSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, movs, 4, "incluye el movimiento sin asignar y el extornado")

	totals, err := e.ledger.TotalsByMethodAndDirection(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "80.00", totals.Ingress.Yape.StringFixed(2))
	assert.Equal(t, "20.00", totals.Ingress.Efectivo.StringFixed(2), "el extorno no suma")
	assert.Equal(t, "5.00", totals.Egress.Efectivo.StringFixed(2))
}
