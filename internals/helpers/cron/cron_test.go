package cron

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCronLogger(t *testing.T) {
	is := is.New(t)

	core, logs := observer.New(zap.DebugLevel)
	clogger := cronLogger{zap.New(core).Sugar()}
	clogger.Info("foo")
	clogger.Error(errors.New("bar"), "test")

	entries := logs.All()
	is.Equal(len(entries), 2)
	is.Equal(entries[0].Message, "foo")
	is.Equal(entries[0].Level, zap.DebugLevel)
	is.Equal(entries[1].Message, "test")
	is.Equal(entries[1].ContextMap()["err"], "bar")
}

func TestSchedulerAddRemove(t *testing.T) {
	is := is.New(t)

	s := NewScheduler(nil)
	id, err := s.AddFunc("* * * * *", func() {})
	is.NoErr(err)
	s.Remove(id)

	_, err = s.AddFunc("not a schedule", func() {})
	is.True(err != nil)
}
