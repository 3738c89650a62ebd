package delivery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

// Stats conteo de entregas por estado. ByStatus siempre tiene una entrada (posiblemente
// cero) por cada estado conocido; los estados desconocidos van a Unknown.
type Stats struct {
	Total    int
	ByStatus map[entity.DeliveryStatus]int
	Unknown  map[string]int
}

// NewStats devuelve el contador inicializado en cero para todos los estados conocidos.
func NewStats() Stats {
	by := make(map[entity.DeliveryStatus]int, len(entity.DeliveryStatuses()))
	for _, s := range entity.DeliveryStatuses() {
		by[s] = 0
	}
	return Stats{ByStatus: by, Unknown: map[string]int{}}
}

// Add suma una entrega. Un estado desconocido se cuenta en Total y en Unknown y
// devuelve ErrUnknownStatus.
func (s *Stats) Add(status entity.DeliveryStatus) error {
	s.Total++
	if !status.Known() {
		s.Unknown[string(status)]++
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(status))
	}
	s.ByStatus[status]++
	return nil
}

// AddN suma n entregas de un mismo estado (agregados ya agrupados, p.ej. GROUP BY).
func (s *Stats) AddN(status entity.DeliveryStatus, n int) error {
	if n <= 0 {
		return nil
	}
	s.Total += n
	if !status.Known() {
		s.Unknown[string(status)] += n
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(status))
	}
	s.ByStatus[status] += n
	return nil
}

// Count devuelve el conteo de un estado.
func (s Stats) Count(status entity.DeliveryStatus) int {
	return s.ByStatus[status]
}

// Err resume los estados desconocidos vistos, o nil si no hubo ninguno.
func (s Stats) Err() error {
	if len(s.Unknown) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Unknown))
	for k, n := range s.Unknown {
		names = append(names, fmt.Sprintf("%q×%d", k, n))
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s", domain.ErrUnknownStatus, strings.Join(names, ", "))
}

// Aggregate recorre los estados una sola vez. Devuelve siempre las estadísticas
// calculadas; el error, si lo hay, enumera los estados desconocidos.
func Aggregate(statuses []entity.DeliveryStatus) (Stats, error) {
	st := NewStats()
	for _, s := range statuses {
		_ = st.Add(s)
	}
	return st, st.Err()
}
