package attribute

// Container is owned by each network object and holds that object's
// locally-set attributes. If the owning object is the Network, its
// container also holds every AttributeDefinition declared for the whole
// network.
type Container struct {
	objType     ObjectType
	parent      *Container
	attributes  map[string]*Attribute
	definitions map[string]*Definition
}

// NewContainer creates a Container for an object of the given type.
func NewContainer(objType ObjectType) *Container {
	return &Container{
		objType:     objType,
		attributes:  make(map[string]*Attribute),
		definitions: make(map[string]*Definition),
	}
}

// SetParent links this container to its owning object's parent container,
// used for default-value inheritance in Lookup.
func (c *Container) SetParent(parent *Container) {
	c.parent = parent
}

// ObjectType returns the type of object this container belongs to.
func (c *Container) ObjectType() ObjectType {
	return c.objType
}

// Add stores a locally-set attribute, keyed by its name.
func (c *Container) Add(attr *Attribute) {
	c.attributes[attr.Name()] = attr
}

// AddDefinition registers an attribute definition. Meaningful only on the
// Network's container, which is the sole place definitions are looked up
// from during Lookup's parent-chain walk.
func (c *Container) AddDefinition(def *Definition) {
	c.definitions[def.Name] = def
}

// Definition returns a definition registered directly on this container
// by name.
func (c *Container) Definition(name string) (*Definition, bool) {
	def, ok := c.definitions[name]
	return def, ok
}

// Definitions returns every definition registered directly on this
// container.
func (c *Container) Definitions() map[string]*Definition {
	return c.definitions
}

// Lookup resolves an attribute by name by walking the parent chain:
//  1. a locally-set attribute on this container wins outright;
//  2. otherwise walk the parent chain; at each ancestor, a definition
//     matching name whose ObjType equals this container's object type and
//     whose default is non-null synthesizes a default-valued attribute;
//  3. if the walk is exhausted without a hit, the lookup fails.
func (c *Container) Lookup(name string) (*Attribute, bool) {
	if attr, ok := c.attributes[name]; ok {
		return attr, true
	}
	for ancestor := c.parent; ancestor != nil; ancestor = ancestor.parent {
		def, ok := ancestor.definitions[name]
		if !ok || def.ObjType != c.objType {
			continue
		}
		if _, hasDefault := def.Default(); !hasDefault {
			continue
		}
		return &Attribute{Definition: def}, true
	}
	return nil, false
}

// Len returns the number of locally-set attributes.
func (c *Container) Len() int {
	return len(c.attributes)
}
