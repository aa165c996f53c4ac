package fake

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/wallnav/components/base"
)

func TestFakeBase(t *testing.T) {
	ctx := context.Background()
	b := NewBase()

	_, ok := b.Last()
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, b.SetVelocity(ctx, r3.Vector{X: 0.5}, r3.Vector{Z: 0.2}, nil), test.ShouldBeNil)
	test.That(t, b.Stop(ctx, nil), test.ShouldBeNil)

	test.That(t, b.Commands(), test.ShouldResemble, []base.VelocityCommand{
		{LinearX: 0.5, AngularZ: 0.2},
		{},
	})
	last, ok := b.Last()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, last.IsStop(), test.ShouldBeTrue)
	test.That(t, b.StopCount(), test.ShouldEqual, 1)

	b.SetVelocityErr = errors.New("bad")
	test.That(t, b.SetVelocity(ctx, r3.Vector{}, r3.Vector{}, nil), test.ShouldBeError, b.SetVelocityErr)
	b.SetVelocityErr = nil

	test.That(t, b.Close(ctx), test.ShouldBeNil)
	test.That(t, b.SetVelocity(ctx, r3.Vector{}, r3.Vector{}, nil), test.ShouldNotBeNil)
	test.That(t, b.Commands(), test.ShouldHaveLength, 2)
}
