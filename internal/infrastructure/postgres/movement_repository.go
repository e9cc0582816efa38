package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, occurred_at, item_type, item_id, block_type_id, length_mm, width_mm, height_mm,
	direction, quantity, unit, location_type, location_id, reference_type, reference_id,
	notes, created_by, created_at, updated_at`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento. Un ID o una referencia de propiedad repetidos devuelven ErrConflict.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query, movementArgs(m)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movimiento duplicado: %v", domain.ErrConflict, err)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// Update reescribe en sitio todos los campos del movimiento salvo id y created_at.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE inventory_movements SET
			occurred_at = $2, item_type = $3, item_id = $4, block_type_id = $5,
			length_mm = $6, width_mm = $7, height_mm = $8, direction = $9, quantity = $10,
			unit = $11, location_type = $12, location_id = $13, reference_type = $14,
			reference_id = $15, notes = $16, created_by = $17, updated_at = $18
		WHERE id = $1`
	args := movementArgs(m)
	args = append(args[:17], m.UpdatedAt) // sin created_at
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: referencia de propiedad duplicada: %v", domain.ErrConflict, err)
		}
		return fmt.Errorf("update inventory movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil, nil si no existe).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory movement: %w", err)
	}
	return m, nil
}

// FindByReference movimientos con (reference_type, reference_id) dados. Bloquea las filas
// (FOR UPDATE) hasta el fin de la transacción.
func (r *MovementRepo) FindByReference(ctx context.Context, ref entity.Reference) ([]*entity.Movement, error) {
	refType, refID := ref.Columns()
	if refType == "" {
		return nil, fmt.Errorf("%w: referencia vacía", domain.ErrInvalidInput)
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at, id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("find movements by reference: %w", err)
	}
	return collectMovements(rows)
}

// DeleteOwned elimina los movimientos indicados. Solo lo usan la retracción de producciones
// y la limpieza de consumiciones encadenadas.
func (r *MovementRepo) DeleteOwned(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete owned movements: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List movimientos filtrados, ordenados por occurred_at ascendente.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	where, args := movementWhere(f)
	query := `SELECT ` + movementColumns + ` FROM inventory_movements` + where + " ORDER BY occurred_at, created_at, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	return collectMovements(rows)
}

// Count total de movimientos que cumplen el filtro (para la paginación).
func (r *MovementRepo) Count(ctx context.Context, f repository.MovementFilter) (int64, error) {
	where, args := movementWhere(f)
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_movements`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inventory movements: %w", err)
	}
	return n, nil
}

// movementWhere arma la cláusula WHERE con placeholders $1..$n.
func movementWhere(f repository.MovementFilter) (string, []any) {
	where := " WHERE 1 = 1"
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(cond, len(args))
	}
	if len(f.ItemTypes) > 0 {
		types := make([]string, len(f.ItemTypes))
		for i, t := range f.ItemTypes {
			types[i] = string(t)
		}
		add(" AND item_type = ANY($%d)", types)
	}
	if f.ItemID != "" {
		add(" AND item_id = $%d", f.ItemID)
	}
	if f.BlockTypeID != "" {
		add(" AND block_type_id = $%d", f.BlockTypeID)
	}
	if f.LocationType != "" {
		add(" AND location_type = $%d", string(f.LocationType))
	}
	if f.LocationID != "" {
		add(" AND location_id = $%d", f.LocationID)
	}
	if f.Until != nil {
		add(" AND occurred_at <= $%d", *f.Until)
	}
	return where, args
}

func movementArgs(m *entity.Movement) []any {
	var blockTypeID string
	var length, width, height int
	if b, ok := m.Item.(entity.BlockItem); ok {
		blockTypeID = b.BlockTypeID
		length, width, height = b.LengthMM, b.WidthMM, b.HeightMM
	}
	loc := m.Location.Normalized()
	var refType, refID string
	if m.Reference != nil {
		refType, refID = m.Reference.Columns()
	}
	return []any{
		m.ID, m.OccurredAt, string(m.ItemType()), nullString(entity.ItemID(m.Item)),
		nullString(blockTypeID), nullInt(length), nullInt(width), nullInt(height),
		string(m.Direction), m.Quantity, string(m.Unit),
		string(loc.Type), nullString(loc.ID), nullString(refType), nullString(refID),
		nullString(m.Notes), nullString(m.CreatedBy), m.CreatedAt, m.UpdatedAt,
	}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                                       entity.Movement
		itemType, direction, unit, locationType string
		itemID, blockTypeID, locationID         *string
		refType, refID, notes, createdBy        *string
		length, width, height                   *int
	)
	if err := row.Scan(
		&m.ID, &m.OccurredAt, &itemType, &itemID, &blockTypeID, &length, &width, &height,
		&direction, &m.Quantity, &unit, &locationType, &locationID, &refType, &refID,
		&notes, &createdBy, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	switch entity.ItemType(itemType) {
	case entity.ItemTypeRawMaterial:
		m.Item = entity.RawMaterialItem{RawMaterialID: derefString(itemID)}
	case entity.ItemTypeBlock:
		m.Item = entity.BlockItem{
			BlockTypeID: derefString(blockTypeID),
			LengthMM:    derefInt(length),
			WidthMM:     derefInt(width),
			HeightMM:    derefInt(height),
		}
	case entity.ItemTypeMolded:
		m.Item = entity.MoldedItem{MoldTypeID: derefString(itemID)}
	default:
		return nil, fmt.Errorf("item_type desconocido en movimiento %s: %q", m.ID, itemType)
	}
	m.Direction = entity.Direction(direction)
	m.Unit = entity.Unit(unit)
	m.Location = entity.Location{Type: entity.LocationType(locationType), ID: derefString(locationID)}.Normalized()
	m.Reference = entity.ReferenceFromColumns(derefString(refType), derefString(refID))
	m.Notes = derefString(notes)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
