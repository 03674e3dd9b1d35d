package candb_test

import (
	"errors"
	"testing"

	candb "github.com/stefanhoelzl/go-candb"
	"github.com/stefanhoelzl/go-candb/attribute"
	"github.com/stretchr/testify/assert"
)

func TestNodeAddMessageWiresSenderAndAttributeParent(t *testing.T) {
	n := candb.NewNode("ECU1")
	m := candb.NewMessage(0x100, "Status", 4)

	assert.NoError(t, n.AddMessage(m))
	assert.Same(t, n, m.Sender)
	assert.Same(t, m, n.Messages[0x100])

	// a Message-typed default on the node's container is reachable from
	// the message only if its attribute parent is the node's container.
	def := attribute.NewIntDefinition("Prio", attribute.ObjectTypeMessage, 0, 10)
	def.SetDefault(3)
	n.Attributes.AddDefinition(def)
	_, ok := m.Attributes.Lookup("Prio")
	assert.True(t, ok)
}

func TestNodeAddMessageRejectsAlreadySentMessage(t *testing.T) {
	n1 := candb.NewNode("ECU1")
	n2 := candb.NewNode("ECU2")
	m := candb.NewMessage(0x100, "Status", 4)

	assert.NoError(t, n1.AddMessage(m))
	err := n2.AddMessage(m)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, candb.ErrStructural))
}
