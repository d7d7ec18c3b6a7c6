package core_test

import "github.com/erain9/ordercache/pkg/core"

// Order sets with known matching sizes.

func fixtureABCD() []*core.Order {
	return []*core.Order{
		core.NewOrder("1", "ABCD", core.Sell, 10000, "u1", "c1"),
		core.NewOrder("2", "ABCD", core.Buy, 2000, "u2", "c2"),
		core.NewOrder("3", "ABCD", core.Buy, 1000, "u3", "c2"),
	}
}

func fixtureEight() []*core.Order {
	return []*core.Order{
		core.NewOrder("OrdId1", "SecId1", core.Buy, 1000, "User1", "CompanyA"),
		core.NewOrder("OrdId2", "SecId2", core.Sell, 3000, "User2", "CompanyB"),
		core.NewOrder("OrdId3", "SecId1", core.Sell, 500, "User3", "CompanyA"),
		core.NewOrder("OrdId4", "SecId2", core.Buy, 600, "User4", "CompanyC"),
		core.NewOrder("OrdId5", "SecId2", core.Buy, 100, "User5", "CompanyB"),
		core.NewOrder("OrdId6", "SecId3", core.Buy, 1000, "User6", "CompanyD"),
		core.NewOrder("OrdId7", "SecId2", core.Buy, 2000, "User7", "CompanyE"),
		core.NewOrder("OrdId8", "SecId2", core.Sell, 5000, "User8", "CompanyE"),
	}
}

func fixtureThirteen() []*core.Order {
	return []*core.Order{
		core.NewOrder("OrdId1", "SecId1", core.Sell, 100, "User10", "Company2"),
		core.NewOrder("OrdId2", "SecId3", core.Sell, 200, "User8", "Company2"),
		core.NewOrder("OrdId3", "SecId1", core.Buy, 300, "User13", "Company2"),
		core.NewOrder("OrdId4", "SecId2", core.Sell, 400, "User12", "Company2"),
		core.NewOrder("OrdId5", "SecId3", core.Sell, 500, "User7", "Company2"),
		core.NewOrder("OrdId6", "SecId3", core.Buy, 600, "User3", "Company1"),
		core.NewOrder("OrdId7", "SecId1", core.Sell, 700, "User10", "Company2"),
		core.NewOrder("OrdId8", "SecId1", core.Sell, 800, "User2", "Company1"),
		core.NewOrder("OrdId9", "SecId2", core.Buy, 900, "User6", "Company2"),
		core.NewOrder("OrdId10", "SecId2", core.Sell, 1000, "User5", "Company1"),
		core.NewOrder("OrdId11", "SecId1", core.Sell, 1100, "User13", "Company2"),
		core.NewOrder("OrdId12", "SecId2", core.Buy, 1200, "User9", "Company2"),
		core.NewOrder("OrdId13", "SecId1", core.Sell, 1300, "User1", "Company1"),
	}
}

func fixtureEleven() []*core.Order {
	return []*core.Order{
		core.NewOrder("OrdId1", "SecId3", core.Sell, 100, "User1", "Company1"),
		core.NewOrder("OrdId2", "SecId3", core.Sell, 200, "User3", "Company2"),
		core.NewOrder("OrdId3", "SecId1", core.Buy, 300, "User2", "Company1"),
		core.NewOrder("OrdId4", "SecId3", core.Sell, 400, "User5", "Company2"),
		core.NewOrder("OrdId5", "SecId2", core.Sell, 500, "User2", "Company1"),
		core.NewOrder("OrdId6", "SecId2", core.Buy, 600, "User3", "Company2"),
		core.NewOrder("OrdId7", "SecId2", core.Sell, 700, "User1", "Company1"),
		core.NewOrder("OrdId8", "SecId1", core.Sell, 800, "User2", "Company1"),
		core.NewOrder("OrdId9", "SecId1", core.Buy, 900, "User5", "Company2"),
		core.NewOrder("OrdId10", "SecId1", core.Sell, 1000, "User1", "Company1"),
		core.NewOrder("OrdId11", "SecId2", core.Sell, 1100, "User6", "Company"),
	}
}
