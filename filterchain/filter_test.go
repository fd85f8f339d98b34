package filterchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naviserver-project/naviserver-sub001/filterchain"
)

func TestRunFiltersOnlyMatchingWhenAndPattern(t *testing.T) {
	c := filterchain.NewChain()
	var ran []string

	c.Register("GET", "/a/*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "a")
		return filterchain.StatusOK
	}, filterchain.PreAuth, nil, false)

	c.Register("POST", "/a/*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "wrong-method")
		return filterchain.StatusOK
	}, filterchain.PreAuth, nil, false)

	c.Register("GET", "/b/*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "wrong-url")
		return filterchain.StatusOK
	}, filterchain.PreAuth, nil, false)

	c.Register("GET", "/a/*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "wrong-phase")
		return filterchain.StatusOK
	}, filterchain.PostAuth, nil, false)

	status := c.RunFilters(&filterchain.Conn{Method: "GET", URL: "/a/1"}, filterchain.PreAuth)
	assert.Equal(t, filterchain.StatusOK, status)
	assert.Equal(t, []string{"a"}, ran)
}

func TestRunFiltersBreakBecomesOK(t *testing.T) {
	c := filterchain.NewChain()
	var ran []string

	c.Register("*", "*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "first")
		return filterchain.StatusBreak
	}, filterchain.PreAuth, nil, false)
	c.Register("*", "*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "second")
		return filterchain.StatusOK
	}, filterchain.PreAuth, nil, false)

	status := c.RunFilters(&filterchain.Conn{Method: "GET", URL: "/x"}, filterchain.PreAuth)
	assert.Equal(t, filterchain.StatusOK, status)
	assert.Equal(t, []string{"first"}, ran, "BREAK stops the chain before later filters run")
}

func TestRunFiltersTraceReturnCoercedToOK(t *testing.T) {
	c := filterchain.NewChain()
	c.Register("*", "*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		return filterchain.StatusReturn
	}, filterchain.Trace, nil, false)

	status := c.RunFilters(&filterchain.Conn{Method: "GET", URL: "/x"}, filterchain.Trace)
	assert.Equal(t, filterchain.StatusOK, status, "RETURN during a trace run must be reported as OK")
}

func TestRunFiltersErrorPropagates(t *testing.T) {
	c := filterchain.NewChain()
	c.Register("*", "*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		return filterchain.StatusError
	}, filterchain.PreAuth, nil, false)

	status := c.RunFilters(&filterchain.Conn{Method: "GET", URL: "/x"}, filterchain.PreAuth)
	assert.Equal(t, filterchain.StatusError, status)
}

func TestRegisterFirstPrepends(t *testing.T) {
	c := filterchain.NewChain()
	var ran []string

	c.Register("*", "*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "appended")
		return filterchain.StatusOK
	}, filterchain.PreAuth, nil, false)
	c.Register("*", "*", func(arg any, conn *filterchain.Conn, when filterchain.When) filterchain.Status {
		ran = append(ran, "prepended")
		return filterchain.StatusOK
	}, filterchain.PreAuth, nil, true)

	c.RunFilters(&filterchain.Conn{Method: "GET", URL: "/x"}, filterchain.PreAuth)
	assert.Equal(t, []string{"prepended", "appended"}, ran)
}

func TestTracesRunFIFO(t *testing.T) {
	c := filterchain.NewChain()
	var ran []int
	c.RegisterTrace(func(arg any, conn *filterchain.Conn) { ran = append(ran, 1) }, nil)
	c.RegisterTrace(func(arg any, conn *filterchain.Conn) { ran = append(ran, 2) }, nil)
	c.RegisterTrace(func(arg any, conn *filterchain.Conn) { ran = append(ran, 3) }, nil)

	c.RunTraces(&filterchain.Conn{})
	assert.Equal(t, []int{1, 2, 3}, ran)
}

func TestCleanupsRunLIFO(t *testing.T) {
	c := filterchain.NewChain()
	var ran []int
	c.RegisterCleanup(func(arg any, conn *filterchain.Conn) { ran = append(ran, 1) }, nil)
	c.RegisterCleanup(func(arg any, conn *filterchain.Conn) { ran = append(ran, 2) }, nil)
	c.RegisterCleanup(func(arg any, conn *filterchain.Conn) { ran = append(ran, 3) }, nil)

	c.RunCleanups(&filterchain.Conn{})
	assert.Equal(t, []int{3, 2, 1}, ran)
}
