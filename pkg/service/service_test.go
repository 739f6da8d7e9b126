package service

import (
	"context"
	"errors"
	"testing"
)

type fake struct {
	name  string
	trace *[]string
	err   error
}

func (f fake) Run() { *f.trace = append(*f.trace, "run "+f.name) }
func (f fake) Shutdown(context.Context) error {
	*f.trace = append(*f.trace, "stop "+f.name)
	return f.err
}
func (f fake) String() string { return f.name }

func TestGroup(t *testing.T) {
	var trace []string
	boom := errors.New("boom")

	var g Group
	g.Add(fake{name: "a", trace: &trace}, "not runnable", fake{name: "b", trace: &trace, err: boom})
	g.Add(fake{name: "c", trace: &trace, err: context.Canceled})
	g.Start()
	err := g.Shutdown(context.Background())

	want := []string{"run a", "run b", "run c", "stop c", "stop b", "stop a"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
