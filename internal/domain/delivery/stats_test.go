package delivery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/delivery"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

func TestAggregate_EjemploPendentePendenteEntregue(t *testing.T) {
	st, err := delivery.Aggregate([]entity.DeliveryStatus{
		entity.StatusPending, entity.StatusPending, entity.StatusDelivered,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Count(entity.StatusPending))
	assert.Equal(t, 1, st.Count(entity.StatusDelivered))
	assert.Equal(t, 0, st.Count(entity.StatusInTransit))
	assert.Equal(t, 0, st.Count(entity.StatusCancelled))
}

func TestAggregate_ListaVaciaSembrada(t *testing.T) {
	st, err := delivery.Aggregate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)
	for _, s := range entity.DeliveryStatuses() {
		v, ok := st.ByStatus[s]
		assert.True(t, ok, "estado %s debe estar inicializado", s)
		assert.Zero(t, v)
	}
}

// El total coincide con la suma por estado para cualquier combinación de estados conocidos.
func TestAggregate_TotalIgualSumaPorEstado(t *testing.T) {
	all := entity.DeliveryStatuses()
	for n := 0; n < 40; n++ {
		statuses := make([]entity.DeliveryStatus, 0, n)
		for i := 0; i < n; i++ {
			statuses = append(statuses, all[(i*7+n)%len(all)])
		}
		st, err := delivery.Aggregate(statuses)
		require.NoError(t, err)

		sum := 0
		for _, v := range st.ByStatus {
			sum += v
		}
		assert.Equal(t, st.Total, sum, "n=%d", n)
	}
}

func TestAggregate_EstadoDesconocidoReportado(t *testing.T) {
	st, err := delivery.Aggregate([]entity.DeliveryStatus{
		entity.StatusPending, "extraviada", "extraviada", "",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
	assert.Contains(t, err.Error(), `"extraviada"×2`)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 1, st.Count(entity.StatusPending))
	assert.Equal(t, 2, st.Unknown["extraviada"])
	assert.Equal(t, 1, st.Unknown[""])
}

func TestAddN(t *testing.T) {
	st := delivery.NewStats()
	require.NoError(t, st.AddN(entity.StatusCancelled, 4))
	require.NoError(t, st.AddN(entity.StatusPending, 0))
	assert.ErrorIs(t, st.AddN("x", 2), domain.ErrUnknownStatus)
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 4, st.Count(entity.StatusCancelled))
}
