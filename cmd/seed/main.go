package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"koskita/internal/database"
	"koskita/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:koskita.db?cache=shared"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed: ", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM ledger_entries")
	db.Exec("DELETE FROM ledger_accounts")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	superHash, _ := bcrypt.GenerateFromPassword([]byte("super123"), bcrypt.DefaultCost)
	super := domain.User{
		Email:        "super@koskita.id",
		PasswordHash: string(superHash),
		Role:         domain.RoleSuperadmin,
		Name:         "Platform Admin",
	}
	db.Create(&super)
	log.Println("Superadmin created: super@koskita.id / super123")

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "sari@koskita.id",
		PasswordHash: string(ownerHash),
		Role:         domain.RoleAdminKos,
		Name:         "Ibu Sari",
		Phone:        "+62 812 3456 7890",
	}
	db.Create(&owner)

	receptionHash, _ := bcrypt.GenerateFromPassword([]byte("resep123"), bcrypt.DefaultCost)
	reception := domain.User{
		Email:        "resepsionis@koskita.id",
		PasswordHash: string(receptionHash),
		Role:         domain.RoleReceptionist,
		Name:         "Pak Budi",
	}
	db.Create(&reception)

	customers := []domain.User{}
	for i, email := range []string{"andi@gmail.com", "dewi@gmail.com", "rizki@gmail.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("tamu123"), bcrypt.DefaultCost)
		c := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleCustomer,
			Name:         fmt.Sprintf("Penghuni %d", i+1),
			Phone:        fmt.Sprintf("+62 813 9876 54%02d", i+10),
		}
		db.Create(&c)
		customers = append(customers, c)
	}
	log.Printf("Created %d customers (password tamu123)", len(customers))

	// ================== PROPERTY & ROOMS ==================
	log.Println("Creating property and rooms...")

	property := domain.Property{
		OwnerID: owner.ID,
		Name:    "Kos Melati",
		Address: "Jl. Melati No. 12",
		City:    "Yogyakarta",
	}
	db.Create(&property)

	rooms := []domain.Room{
		{
			PropertyID:    property.ID,
			RoomNumber:    "A1",
			Floor:         1,
			RoomType:      "standard",
			PriceMonthly:  1_500_000,
			DepositPolicy: domain.DepositNone,
		},
		{
			PropertyID:    property.ID,
			RoomNumber:    "A2",
			Floor:         1,
			RoomType:      "standard",
			PriceMonthly:  1_000_000,
			DepositPolicy: domain.DepositPercentage,
			DepositValue:  20,
		},
		{
			PropertyID:    property.ID,
			RoomNumber:    "B1",
			Floor:         2,
			RoomType:      "deluxe",
			PriceDaily:    120_000,
			PriceMonthly:  2_500_000,
			DepositPolicy: domain.DepositFixed,
			DepositValue:  500_000,
		},
	}
	for i := range rooms {
		db.Create(&rooms[i])
	}
	log.Printf("Created %d rooms", len(rooms))

	// ================== SYSTEM LEDGER ACCOUNTS ==================
	log.Println("Creating system ledger accounts...")

	accounts := []domain.LedgerAccount{
		{Name: domain.SystemAccountCash, Type: domain.AccountCash, IsSystem: true},
		{Name: domain.SystemAccountBankTransfer, Type: domain.AccountBank, IsSystem: true},
		{Name: domain.SystemAccountDepositIncome, Type: domain.AccountIncome, IsSystem: true},
	}
	for i := range accounts {
		db.Create(&accounts[i])
	}

	log.Println("Seed complete.")
}
