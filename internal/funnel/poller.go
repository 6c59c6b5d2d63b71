package funnel

import (
	"context"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

// StartPaymentWatch liga o poller de status da cobrança: um tick a cada
// PollInterval enquanto a tela for pagamento-pendente. O tick e o botão
// manual desembocam no mesmo handler idempotente, então os dois podem
// disparar quase juntos sem duplicar efeito.
func (m *Machine) StartPaymentWatch(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.deps.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.Current() != entity.ScreenPaymentPending {
					return
				}
				// Erros do tick já são engolidos e logados no handler.
				_ = m.Dispatch(ctx, PaymentTick{})
			}
		}
	}()
}
