package base_test

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/wallnav/components/base"
	"go.viam.com/wallnav/components/base/fake"
)

func TestVelocityCommandVectors(t *testing.T) {
	cmd := base.VelocityCommand{LinearX: 0.3, AngularZ: -0.2}
	linear, angular := cmd.Vectors()
	test.That(t, linear, test.ShouldResemble, r3.Vector{X: 0.3})
	test.That(t, angular, test.ShouldResemble, r3.Vector{Z: -0.2})
	test.That(t, base.CommandFromVectors(linear, angular), test.ShouldResemble, cmd)
	test.That(t, cmd.IsStop(), test.ShouldBeFalse)
	test.That(t, base.VelocityCommand{}.IsStop(), test.ShouldBeTrue)
	test.That(t, cmd.String(), test.ShouldEqual, "linear_x=+0.3000 angular_z=-0.2000")
}

func TestSend(t *testing.T) {
	b := fake.NewBase()
	cmd := base.VelocityCommand{LinearX: 0.5, AngularZ: 0.1}
	test.That(t, base.Send(context.Background(), b, cmd), test.ShouldBeNil)
	test.That(t, b.Commands(), test.ShouldResemble, []base.VelocityCommand{cmd})
}
