package config

import (
	"fmt"
	"os"

	"github.com/erain9/ordercache/pkg/core"
	"gopkg.in/yaml.v3"
)

// orderFile is the on-disk shape of an order fixture:
//
//	orders:
//	  - {id: OrdId1, security: SecId1, side: Buy, qty: 1000, user: User1, company: CompanyA}
type orderFile struct {
	Orders []struct {
		ID       string `yaml:"id"`
		Security string `yaml:"security"`
		Side     string `yaml:"side"`
		Qty      uint64 `yaml:"qty"`
		User     string `yaml:"user"`
		Company  string `yaml:"company"`
	} `yaml:"orders"`
}

// ParseOrders decodes an order fixture document
func ParseOrders(data []byte) ([]*core.Order, error) {
	var file orderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse orders: %w", err)
	}

	orders := make([]*core.Order, 0, len(file.Orders))
	for i, o := range file.Orders {
		side, err := core.ParseSide(o.Side)
		if err != nil {
			return nil, fmt.Errorf("order %d (%s): %w: %q", i, o.ID, err, o.Side)
		}
		orders = append(orders, core.NewOrder(o.ID, o.Security, side, o.Qty, o.User, o.Company))
	}

	return orders, nil
}

// LoadOrders reads an order fixture file
func LoadOrders(path string) ([]*core.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}
	return ParseOrders(data)
}
