package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/gdscrape/internal/config"
	"github.com/jimezsa/gdscrape/internal/network"
)

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate proxies against a target URL."`
}

type ProxyCheckCmd struct {
	Target  string `help:"Target URL." default:"https://www.glassdoor.com"`
	Timeout int    `help:"Timeout in seconds." default:"15"`
	Proxies string `help:"Comma-separated proxy entries; defaults to the configured proxies." env:"GDSCRAPE_PROXIES"`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxies, err := config.LoadProxies(p.Proxies)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured")
	}

	timeout := time.Duration(p.Timeout) * time.Second
	results := make([]ProxyCheckResult, 0, len(proxies))
	failed := 0
	for _, proxy := range proxies {
		result := ProxyCheckResult{Proxy: proxy}
		start := time.Now()
		resp, err := checkProxy(proxy, p.Target, timeout)
		if err != nil {
			result.Status = "error"
			failed++
			result.Error = err.Error()
		} else {
			result.Status = fmt.Sprintf("%d", resp.Status)
		}
		result.LatencyMS = time.Since(start).Milliseconds()
		ctx.Logger.Debug().Str("proxy", proxy).Str("status", result.Status).Int64("latency_ms", result.LatencyMS).Msg("proxy checked")
		results = append(results, result)
	}

	if err := writeProxyResults(ctx, results); err != nil {
		return err
	}
	if failed == len(results) {
		ctx.UI.Warnf("no proxy reached %s", p.Target)
	}
	return nil
}

func checkProxy(proxy string, target string, timeout time.Duration) (*network.Response, error) {
	rotator, err := network.NewRotator([]string{proxy}, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	client, err := network.NewClient(rotator, timeout)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Fetch(reqCtx, network.Request{URL: target})
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
