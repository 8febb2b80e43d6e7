package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start processing.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Ripple.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Ripple.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Ripple.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunStart begins a pipeline run for the given workflow tag.
func (c *Client) RunStart(tag string) (*RunStartResponse, error) {
	var resp RunStartResponse
	if err := c.client.Call("Ripple.RunStart", RunStartRequest{Tag: tag}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunStop requests a clean halt of one run.
func (c *Client) RunStop(id string) (*RunStopResponse, error) {
	var resp RunStopResponse
	if err := c.client.Call("Ripple.RunStop", RunStopRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunList returns active and recently finished runs.
func (c *Client) RunList() (*RunListResponse, error) {
	var resp RunListResponse
	if err := c.client.Call("Ripple.RunList", RunListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunShow returns one run including its log.
func (c *Client) RunShow(id string) (*RunShowResponse, error) {
	var resp RunShowResponse
	if err := c.client.Call("Ripple.RunShow", RunShowRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemList returns catalog items optionally filtered by tag and statuses.
func (c *Client) ItemList(tag string, statuses []string) (*ItemListResponse, error) {
	var resp ItemListResponse
	req := ItemListRequest{Tag: tag, Statuses: statuses}
	if err := c.client.Call("Ripple.ItemList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemShow returns details for a single catalog item.
func (c *Client) ItemShow(id int64) (*ItemShowResponse, error) {
	var resp ItemShowResponse
	if err := c.client.Call("Ripple.ItemShow", ItemShowRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemRemove deletes a catalog item.
func (c *Client) ItemRemove(id int64) (*ItemRemoveResponse, error) {
	var resp ItemRemoveResponse
	if err := c.client.Call("Ripple.ItemRemove", ItemRemoveRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemSubmit submits one generated comment outside a full run.
func (c *Client) ItemSubmit(id int64) (*ItemSubmitResponse, error) {
	var resp ItemSubmitResponse
	if err := c.client.Call("Ripple.ItemSubmit", ItemSubmitRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemBoost orders an engagement boost for one confirmed comment.
func (c *Client) ItemBoost(id int64) (*ItemBoostResponse, error) {
	var resp ItemBoostResponse
	if err := c.client.Call("Ripple.ItemBoost", ItemBoostRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TargetAdd registers a monitored discovery target.
func (c *Client) TargetAdd(targetType, value, tag string) (*TargetAddResponse, error) {
	var resp TargetAddResponse
	req := TargetAddRequest{Type: targetType, Value: value, Tag: tag}
	if err := c.client.Call("Ripple.TargetAdd", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TargetList lists monitored targets.
func (c *Client) TargetList(tag string) (*TargetListResponse, error) {
	var resp TargetListResponse
	if err := c.client.Call("Ripple.TargetList", TargetListRequest{Tag: tag}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TargetRemove deletes a monitored target.
func (c *Client) TargetRemove(id int64) (*TargetRemoveResponse, error) {
	var resp TargetRemoveResponse
	if err := c.client.Call("Ripple.TargetRemove", TargetRemoveRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BrandShow fetches the brand profile.
func (c *Client) BrandShow() (*BrandShowResponse, error) {
	var resp BrandShowResponse
	if err := c.client.Call("Ripple.BrandShow", BrandShowRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BrandSet replaces the brand profile.
func (c *Client) BrandSet(profile BrandProfile) (*BrandSetResponse, error) {
	var resp BrandSetResponse
	if err := c.client.Call("Ripple.BrandSet", BrandSetRequest{Profile: profile}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PromptsShow fetches the prompt set for one workflow tag.
func (c *Client) PromptsShow(tag string) (*PromptsShowResponse, error) {
	var resp PromptsShowResponse
	if err := c.client.Call("Ripple.PromptsShow", PromptsShowRequest{Tag: tag}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PromptsSet replaces the prompt set for one workflow tag.
func (c *Client) PromptsSet(prompts PromptSet) (*PromptsSetResponse, error) {
	var resp PromptsSetResponse
	if err := c.client.Call("Ripple.PromptsSet", PromptsSetRequest{Prompts: prompts}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
