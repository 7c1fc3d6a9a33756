package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estuary/occ/go/coordinator"
	"github.com/estuary/occ/go/dispatcher"
)

func TestScenariosReplayCleanly(t *testing.T) {
	for name, scenario := range Scenarios() {
		name, scenario := name, scenario
		t.Run(name, func(t *testing.T) {
			disp := dispatcher.New(0, nil)
			disp.Start()
			facade := coordinator.New(disp)

			outcomes, err := Run(context.Background(), facade, scenario)
			require.NoError(t, err, "scenario %q", name)
			require.NotEmpty(t, outcomes)
		})
	}
}
