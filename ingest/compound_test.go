package ingest

import (
	"context"
	stderrors "errors"
	"testing"
)

type fakeProcessor struct {
	typeName string
	err      error
	invoked  int
	onExec   func(doc *Document)
}

func (p *fakeProcessor) Type() string { return p.typeName }

func (p *fakeProcessor) Execute(ctx context.Context, doc *Document) error {
	p.invoked++
	if p.onExec != nil {
		p.onExec(doc)
	}
	return p.err
}

func TestCompoundProcessor_Execute_AllStepsRun(t *testing.T) {
	first := &fakeProcessor{typeName: "first"}
	second := &fakeProcessor{typeName: "second"}
	compound := NewCompoundProcessor([]Processor{first, second}, nil)

	if err := compound.Execute(context.Background(), NewDocument(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.invoked != 1 || second.invoked != 1 {
		t.Errorf("expected both steps to run once, got %d and %d", first.invoked, second.invoked)
	}
}

func TestCompoundProcessor_Execute_EmptyRecoveryPropagatesOriginalError(t *testing.T) {
	cause := stderrors.New("step blew up")
	failing := &fakeProcessor{typeName: "boom", err: cause}
	compound := NewCompoundProcessor([]Processor{failing}, nil)

	err := compound.Execute(context.Background(), NewDocument(nil))
	if !stderrors.Is(err, cause) {
		t.Errorf("expected original error unchanged, got %v", err)
	}
}

func TestCompoundProcessor_Execute_RecoveryReplacesRemainderOfChain(t *testing.T) {
	first := &fakeProcessor{typeName: "first"}
	failing := &fakeProcessor{typeName: "boom", err: stderrors.New("nope")}
	never := &fakeProcessor{typeName: "never"}
	recovery := &fakeProcessor{typeName: "recover"}
	compound := NewCompoundProcessor([]Processor{first, failing, never}, []Processor{recovery})

	if err := compound.Execute(context.Background(), NewDocument(nil)); err != nil {
		t.Fatalf("expected recovered execution, got %v", err)
	}
	if first.invoked != 1 {
		t.Error("steps before the failure must run")
	}
	if never.invoked != 0 {
		t.Error("steps after the failure must not resume")
	}
	if recovery.invoked != 1 {
		t.Error("recovery chain must run")
	}
}

func TestCompoundProcessor_Execute_RecoverySeesFailureMetadata(t *testing.T) {
	failing := &fakeProcessor{typeName: "boom", err: stderrors.New("step blew up")}
	var message, processorType interface{}
	recovery := &fakeProcessor{typeName: "recover", onExec: func(doc *Document) {
		message, _ = doc.Get(MetaFailureMessage)
		processorType, _ = doc.Get(MetaFailureProcessorType)
	}}
	compound := NewCompoundProcessor([]Processor{failing}, []Processor{recovery})

	doc := NewDocument(nil)
	if err := compound.Execute(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message != "step blew up" {
		t.Errorf("expected failure message metadata, got %v", message)
	}
	if processorType != "boom" {
		t.Errorf("expected failing processor type metadata, got %v", processorType)
	}
	if doc.Has(MetaFailureMessage) {
		t.Error("failure metadata must be cleared after recovery completes")
	}
}

func TestCompoundProcessor_Execute_RecoveryFailurePropagates(t *testing.T) {
	failing := &fakeProcessor{typeName: "boom", err: stderrors.New("first failure")}
	recoveryErr := stderrors.New("recovery also failed")
	badRecovery := &fakeProcessor{typeName: "bad-recover", err: recoveryErr}
	compound := NewCompoundProcessor([]Processor{failing}, []Processor{badRecovery})

	err := compound.Execute(context.Background(), NewDocument(nil))
	if !stderrors.Is(err, recoveryErr) {
		t.Errorf("expected recovery failure to propagate, got %v", err)
	}
}
