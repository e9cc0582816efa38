// Package ledger contiene los casos de uso del libro de inventario: almacén de movimientos,
// cálculo de saldos y reportes, sincronización con producciones, movimientos manuales y reservas.
package ledger

import (
	"context"

	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		resRepo repository.ReservationRepository,
	) error) error
}

// Locker serializa escrituras por clave (reference_type:reference_id). Escrituras sobre
// claves distintas avanzan en paralelo.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

var tracer = otel.Tracer("github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
