package main

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Client is a top-level X11 window managed by us.
type Client struct {
	// Window represents X11's internal window ID. It never changes
	// for the lifetime of the Client.
	Window xproto.Window

	// owner is the Monitor whose list currently holds this Client, or
	// nil once the Client has been detached.
	owner *Monitor
}

// Monitor returns the Monitor listing this client, or nil if it is
// detached.
func (c *Client) Monitor() *Monitor {
	return c.owner
}

// Prev returns the sibling before c in its owner's list, or nil at the
// head of the list.
func (c *Client) Prev() *Client {
	if c.owner == nil {
		return nil
	}
	i := c.owner.indexOf(c)
	if i <= 0 {
		return nil
	}
	return c.owner.clients[i-1]
}

// Next returns the sibling after c in its owner's list, or nil at the
// tail of the list.
func (c *Client) Next() *Client {
	if c.owner == nil {
		return nil
	}
	i := c.owner.indexOf(c)
	if i < 0 || i == len(c.owner.clients)-1 {
		return nil
	}
	return c.owner.clients[i+1]
}
