package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/critterfocus/internal/ui"
	"github.com/spf13/cobra"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Spend coins in the reward shop",
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rewards",
	RunE:  withApp(runShopList),
}

var shopRedeemCmd = &cobra.Command{
	Use:   "redeem [code]",
	Short: "Redeem a reward",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runShopRedeem),
}

func init() {
	shopCmd.AddCommand(shopListCmd, shopRedeemCmd)
}

func runShopList(a *app, cmd *cobra.Command, args []string) error {
	balance := a.svc.Economy().VirtualCurrency
	fmt.Println(ui.Heading(ui.IconShop, "Reward shop"))
	fmt.Println(ui.LabelValue("Balance", fmt.Sprintf("%s %d", ui.IconCoin, balance)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tREWARD\tCOST\tDESCRIPTION")
	for _, r := range a.svc.RewardCatalog() {
		cost := ui.Good.Render(fmt.Sprint(r.Cost))
		if r.Cost > balance {
			cost = ui.Muted.Render(fmt.Sprint(r.Cost))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Code, r.Name, cost, r.Description)
	}
	w.Flush()
	return nil
}

func runShopRedeem(a *app, cmd *cobra.Command, args []string) error {
	red, err := a.svc.RedeemReward(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s Redeemed %s for %d coins (balance %d)\n", ui.IconShop, red.Code, red.Cost, a.svc.Economy().VirtualCurrency)
	return nil
}
