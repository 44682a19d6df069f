// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInitDisabled(t *testing.T) {
	tp, shutdown, err := Init(context.Background(), Options{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitNoneExporter(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	tp, shutdown, err := Init(context.Background(), Options{
		Enabled:      true,
		ServiceName:  "contact-intake-test",
		Exporter:     "none",
		SamplingRate: 1.0,
		Logger:       log,
	})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitStdoutExporter(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	tp, shutdown, err := Init(context.Background(), Options{
		Enabled:      true,
		Exporter:     "stdout",
		SamplingRate: 0.5,
		Logger:       log,
	})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitUnknownExporter(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	_, _, err := Init(context.Background(), Options{
		Enabled:  true,
		Exporter: "jaeger",
		Logger:   log,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown OTel exporter")
}

func TestInitClampsSamplingRate(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	tp, shutdown, err := Init(context.Background(), Options{
		Enabled:      true,
		Exporter:     "none",
		SamplingRate: 7.5,
		Logger:       log,
	})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitSpansUsable(t *testing.T) {
	log := zaptest.NewLogger(t).Sugar()
	tp, shutdown, err := Init(context.Background(), Options{
		Enabled:  true,
		Exporter: "none",
		Logger:   log,
	})
	require.NoError(t, err)

	tracer := tp.Tracer("test")
	_, span := tracer.Start(context.Background(), "test-span")
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
