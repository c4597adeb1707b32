// internauth はインターン向けアカウント認証APIサーバー。
//
// サブコマンド:
//
//	serve        APIサーバーを起動する（デフォルト）
//	migrate      データベースマイグレーションを適用する
//	healthcheck  /health を叩いて結果を終了コードで返す
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/internauth/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
