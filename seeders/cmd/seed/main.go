package main

import (
	"flag"
	"log"

	"approval-system/pkg/config"
	"approval-system/pkg/database/postgresql"
	"approval-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)             ")
	log.Println("======================================================")

	runUsers := flag.Bool("users", false, "Запустить создание ролей и демонстрационных пользователей")
	runFlows := flag.Bool("flows", false, "Запустить создание маршрутов согласования")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -users -flows)")

	flag.Parse()

	if !*runUsers && !*runFlows && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -users")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runAll || *runUsers {
		seeders.SeedRolesAndUsers(db)
	}
	if *runAll || *runFlows {
		seeders.SeedApprovalFlows(db)
	}

	log.Println("🏁 Работа сидеров завершена.")
}
