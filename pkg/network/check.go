package network

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"holskywallet/pkg/config"
	"holskywallet/pkg/models"

	"github.com/ethereum/go-ethereum/ethclient"
)

var CheckTimeout = 10 * time.Second

// CheckEndpoints dials every configured RPC URL and compares its chain id with the target.
// RPCs that disagree with each other mark the report inconsistent.
func CheckEndpoints(ctx context.Context, n config.TargetNetwork) models.NetworkReport {
	report := models.NetworkReport{
		Name:          n.Name,
		ConfigChainID: n.ChainID,
	}

	var observed *big.Int
	for _, url := range n.RPCURLs {
		res := models.RPCResult{URL: url}

		id, err := fetchChainID(ctx, url)
		if err != nil {
			res.Status = "error"
			res.Error = err.Error()
			report.RPCs = append(report.RPCs, res)
			continue
		}

		res.Status = "ok"
		res.ChainID = id.Int64()
		if observed == nil {
			observed = id
			report.ObservedChainID = id.Int64()
		} else if observed.Cmp(id) != 0 {
			report.Inconsistent = true
		}
		if id.Cmp(big.NewInt(n.ChainID)) != 0 {
			res.Error = fmt.Sprintf("Mismatch! Expected %d", n.ChainID)
		}
		report.RPCs = append(report.RPCs, res)
	}
	return report
}

func fetchChainID(ctx context.Context, url string) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ChainID: %w", err)
	}
	return id, nil
}

// Healthy reports whether every endpoint answered with the configured chain id.
func Healthy(r models.NetworkReport) bool {
	if len(r.RPCs) == 0 || r.Inconsistent {
		return false
	}
	for _, rpc := range r.RPCs {
		if rpc.Status != "ok" || rpc.Error != "" {
			return false
		}
	}
	return true
}
