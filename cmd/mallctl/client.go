package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(apiFlag).
		SetTimeout(30 * time.Second)
	if tokenFlag != "" {
		c.SetAuthToken(tokenFlag)
	}
	return c
}

func doGet(path string) ([]byte, error) {
	resp, err := newClient().R().Get(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doPostJSON(path string, payload interface{}) ([]byte, error) {
	resp, err := newClient().R().SetBody(payload).Post(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doDelete(path string) ([]byte, error) {
	resp, err := newClient().R().Delete(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
