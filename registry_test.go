package remap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Node struct {
	Name string
	Next *Node
}

type NodeDTO struct {
	Name string
	Next *NodeDTO
}

func TestRegistry_SelfReferentialProjection(t *testing.T) {
	reg := NewRegistry()
	m, err := Register(reg, NewBuilder[Node, NodeDTO]())
	require.NoError(t, err)
	assert.Equal(t, []TypePair{PairOf[Node, NodeDTO]()}, m.Projection().NestedPairs())

	src := &Node{Name: "a", Next: &Node{Name: "b", Next: &Node{Name: "c"}}}
	dst, err := m.Map(src)
	require.NoError(t, err)

	require.NotNil(t, dst.Next)
	require.NotNil(t, dst.Next.Next)
	assert.Equal(t, "a", dst.Name)
	assert.Equal(t, "b", dst.Next.Name)
	assert.Equal(t, "c", dst.Next.Next.Name)
	assert.Nil(t, dst.Next.Next.Next)
	assert.NoError(t, reg.Validate())
}

func TestRegistry_Validate(t *testing.T) {
	reg := NewRegistry()
	_, err := Register(reg, NewBuilder[Person, PersonDTO]())
	require.NoError(t, err)

	err = reg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompatibleType)
	assert.ErrorContains(t, err, "remap.Address -> remap.AddressDTO")

	_, err = Register(reg, NewBuilder[Address, AddressDTO]())
	require.NoError(t, err)
	assert.NoError(t, reg.Validate())
}

func TestRegistry_AutoMapping(t *testing.T) {
	reg := NewRegistry(WithAutoMapping(true))
	m, err := Register(reg, NewBuilder[Person, PersonDTO]())
	require.NoError(t, err)

	_, ok := Lookup[Address, AddressDTO](reg)
	require.True(t, ok, "auto-mapped on lookup")

	dst, err := m.Map(&Person{Name: "Ann", Address: &Address{City: strPtr("Oslo"), Street: "Main"}})
	require.NoError(t, err)
	require.NotNil(t, dst.Address)
	assert.Equal(t, "Oslo", *dst.Address.City)
	assert.Equal(t, "Main", dst.Address.Street)
	assert.Contains(t, reg.Pairs(), PairOf[Address, AddressDTO]())
}

type partialAddress struct {
	Street string
	Zip    int
}

func TestRegistry_AutoMappingIsLenient(t *testing.T) {
	reg := NewRegistry(WithAutoMapping(true))
	m, ok := Lookup[srcTyped, dstTyped](reg)
	require.True(t, ok)

	// Age differs in type and is skipped; Name matches
	dst := &dstTyped{Age: 7}
	_, err := m.MapInto(&srcTyped{Age: "x", Name: "n"}, dst)
	require.NoError(t, err)
	assert.Equal(t, 7, dst.Age)
	assert.Equal(t, "n", dst.Name)

	pm, ok := Lookup[partialAddress, AddressDTO](reg)
	require.True(t, ok)
	assert.Equal(t, 1, pm.Projection().Len())
}

func TestRegistry_AutoMappingMisses(t *testing.T) {
	reg := NewRegistry(WithAutoMapping(true))

	_, ok := reg.Resolve(PairOf[Person, Empty]())
	assert.False(t, ok, "no fields in common")
	_, ok = reg.Resolve(PairOf[int, string]())
	assert.False(t, ok)
	_, ok = reg.Resolve(PairOf[Address, Address]())
	assert.False(t, ok, "identity pairs are never auto-mapped")
	assert.Empty(t, reg.Pairs())
}

func TestRegistry_WithoutAutoMapping(t *testing.T) {
	reg := NewRegistry()
	_, ok := Lookup[Address, AddressDTO](reg)
	assert.False(t, ok)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry(WithAutoMapping(true))
	auto, ok := Lookup[Address, AddressDTO](reg)
	require.True(t, ok)

	explicit, err := Register(reg, NewBuilder[Address, AddressDTO]().Omit("City"))
	require.NoError(t, err)

	got, ok := Lookup[Address, AddressDTO](reg)
	require.True(t, ok)
	assert.Same(t, explicit, got)
	assert.NotSame(t, auto.Projection(), got.Projection())
}

func TestRegistry_RegisteredIdentityPairIsUsed(t *testing.T) {
	reg := NewRegistry()
	_, err := Register(reg, NewBuilder[Address, Address]().Omit("Street"))
	require.NoError(t, err)
	m, err := Register(reg, NewBuilder[Person, Person]())
	require.NoError(t, err)

	src := &Person{Name: "Ann", Address: &Address{City: strPtr("Oslo"), Street: "Main"}}
	dst, err := m.Map(src)
	require.NoError(t, err)
	require.NotNil(t, dst.Address)
	assert.NotSame(t, src.Address, dst.Address)
	assert.Equal(t, "", dst.Address.Street)
}

func TestRegistry_UnregisteredIdentityPairIsCopied(t *testing.T) {
	m, err := New[Person, Person]()
	require.NoError(t, err)

	src := &Person{Name: "Ann", Address: &Address{Street: "Main"}}
	dst, err := m.Map(src)
	require.NoError(t, err)
	assert.Same(t, src.Address, dst.Address)
}

func TestRegistry_ConcurrentAutoMapping(t *testing.T) {
	reg := NewRegistry(WithAutoMapping(true))

	const n = 32
	projections := make([]*Projection, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, ok := Lookup[Address, AddressDTO](reg)
			if ok {
				projections[i] = m.Projection()
			}
		}(i)
	}
	wg.Wait()

	require.NotNil(t, projections[0])
	for _, p := range projections {
		assert.Same(t, projections[0], p)
	}
}

func TestRegistry_ResolverFunc(t *testing.T) {
	addr, err := New[Address, AddressDTO]()
	require.NoError(t, err)
	res := ResolverFunc(func(pair TypePair) (Executor, bool) {
		if pair == addr.Pair() {
			return addr, true
		}
		return nil, false
	})

	m, err := New[Person, PersonDTO](WithResolver(res))
	require.NoError(t, err)
	dst, err := m.Map(&Person{Address: &Address{Street: "Main"}})
	require.NoError(t, err)
	assert.Equal(t, "Main", dst.Address.Street)
}
