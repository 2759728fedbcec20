// Package validation gates crawled records through an ordered list of quality
// rules and splits them into valid and invalid sets.
package validation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/raushankrgupta/catalog-crawler/models"
)

// Rule names, in evaluation order.
const (
	RuleMandatoryFields  = "mandatory_fields_present"
	RuleDescription      = "description_present"
	RuleSalePrice        = "sale_price_not_above_price"
	RuleVariantsComplete = "variants_have_image_and_price"
)

// RuleDecodable is reported for records that could not be read from their
// input file. It is checked before the rules above.
const RuleDecodable = "record_decodable"

// Rule checks one record. Check returns a human-readable reason when the
// record fails and "" when it passes.
type Rule struct {
	Name  string
	Check func(p *models.ProductRecord) string
}

// Result is the outcome of validating one record.
type Result struct {
	Valid      bool
	FailedRule string
	Reason     string
}

// Rejection pairs an invalid record with the rule that rejected it.
type Rejection struct {
	Record models.ProductRecord
	Result Result
}

// Pipeline runs its rules in order and stops at the first failure.
type Pipeline struct {
	rules []Rule
}

// DefaultRules returns the standard rule set in its fixed order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleMandatoryFields, Check: mandatoryFieldsPresent},
		{Name: RuleDescription, Check: descriptionPresent},
		{Name: RuleSalePrice, Check: salePriceNotAbovePrice},
		{Name: RuleVariantsComplete, Check: variantsHaveImageAndPrice},
	}
}

func NewPipeline() *Pipeline {
	return &Pipeline{rules: DefaultRules()}
}

// RuleNames lists the pipeline's rules in evaluation order.
func (p *Pipeline) RuleNames() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name
	}
	return names
}

// Validate evaluates rules in order until one fails.
func (p *Pipeline) Validate(record *models.ProductRecord) Result {
	if record.DecodeErr != nil {
		return Result{FailedRule: RuleDecodable, Reason: record.DecodeErr.Error()}
	}
	for _, rule := range p.rules {
		if reason := rule.Check(record); reason != "" {
			return Result{FailedRule: rule.Name, Reason: reason}
		}
	}
	return Result{Valid: true}
}

// Partition splits records into valid ones and rejections, keeping input
// order within each set.
func (p *Pipeline) Partition(recs []models.ProductRecord) (valid []models.ProductRecord, invalid []Rejection) {
	for i := range recs {
		res := p.Validate(&recs[i])
		if res.Valid {
			valid = append(valid, recs[i])
			continue
		}
		slog.Debug("record rejected", "product_id", recs[i].ProductID, "rule", res.FailedRule, "reason", res.Reason)
		invalid = append(invalid, Rejection{Record: recs[i], Result: res})
	}
	return valid, invalid
}

func mandatoryFieldsPresent(p *models.ProductRecord) string {
	var missing []string
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(p.ProductID) == "" {
		missing = append(missing, "product_id")
	}
	if len(missing) > 0 {
		return fmt.Sprintf("missing mandatory fields: %s", strings.Join(missing, ", "))
	}
	return ""
}

func descriptionPresent(p *models.ProductRecord) string {
	if p.Description == nil || strings.TrimSpace(*p.Description) == "" {
		return "description is missing or empty"
	}
	return ""
}

// salePriceNotAbovePrice compares every sale amount with every list amount.
// An amount that cannot be parsed fails the rule.
func salePriceNotAbovePrice(p *models.ProductRecord) string {
	if len(p.SalePrices) == 0 || len(p.Prices) == 0 {
		return ""
	}
	sales, err := parseAmounts(p.SalePrices)
	if err != nil {
		return err.Error()
	}
	prices, err := parseAmounts(p.Prices)
	if err != nil {
		return err.Error()
	}
	for i, sale := range sales {
		for j, price := range prices {
			if sale.GreaterThan(price) {
				return fmt.Sprintf("sale price %s is greater than price %s", p.SalePrices[i], p.Prices[j])
			}
		}
	}
	return ""
}

func variantsHaveImageAndPrice(p *models.ProductRecord) string {
	for _, m := range p.Models {
		for _, v := range m.Variants {
			if v.Image == nil || strings.TrimSpace(*v.Image) == "" {
				return fmt.Sprintf("variant %s has no image", v.ID)
			}
			if v.Prices == nil || strings.TrimSpace(*v.Prices) == "" {
				return fmt.Sprintf("variant %s has no price", v.ID)
			}
		}
	}
	return ""
}
