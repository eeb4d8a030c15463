// contentcheck validates the YAML content tables without starting a
// server: every ability formula must compile and every cross-reference
// (class spells, summon codes, profile priorities) must resolve.
//
// Usage:
//
//	go run ./cmd/contentcheck [-config arena.toml]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wartide/arena/internal/config"
	"github.com/wartide/arena/internal/data"
)

func main() {
	cfgPath := flag.String("config", "arena.toml", "path to config file")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "contentcheck:", err)
		os.Exit(1)
	}
	fmt.Println("content ok")
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	abilities, err := data.LoadAbilityTable(cfg.Content.AbilitiesPath)
	if err != nil {
		return err
	}
	classes, err := data.LoadHeroClassTable(cfg.Content.ClassesPath)
	if err != nil {
		return err
	}
	summons, err := data.LoadSummonTable(cfg.Content.SummonsPath)
	if err != nil {
		return err
	}
	profiles, err := data.LoadAIProfileTable(cfg.AI.ProfilesPath)
	if err != nil {
		return err
	}

	var bad []string
	check := func(owner, code string) {
		if abilities.Get(code) == nil {
			bad = append(bad, fmt.Sprintf("%s references unknown ability %q", owner, code))
		}
	}
	for _, cls := range classes.All() {
		for _, code := range cls.Features {
			check("class "+cls.Code, code)
		}
		for _, code := range cls.Spells {
			check("class "+cls.Code, code)
		}
	}
	for _, tpl := range summons.All() {
		for _, code := range tpl.Features {
			check("summon "+tpl.Code, code)
		}
		for _, code := range tpl.Spells {
			check("summon "+tpl.Code, code)
		}
	}
	for _, def := range abilities.All() {
		if def.Effect == data.EffectSummon && summons.Get(def.SummonCode) == nil {
			bad = append(bad, fmt.Sprintf("ability %s references unknown summon %q", def.Code, def.SummonCode))
		}
	}
	for cat, p := range profiles.All() {
		for _, code := range p.SkillPriority {
			check("profile "+cat, code)
		}
	}

	if len(bad) > 0 {
		for _, msg := range bad {
			fmt.Fprintln(os.Stderr, " -", msg)
		}
		return fmt.Errorf("%d content error(s)", len(bad))
	}
	fmt.Printf("abilities=%d classes=%d summons=%d profiles=%d\n",
		abilities.Count(), classes.Count(), summons.Count(), profiles.Count())
	return nil
}
